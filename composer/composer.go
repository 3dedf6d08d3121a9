// Package composer defines the composer table, its migration history and
// the data access used by the HTTP API.
package composer

import (
	"embed"

	"github.com/clefbase/clefbase/migration"
	migmodel "github.com/clefbase/clefbase/migration/model"
)

//go:embed db/migrations/*
var migrations embed.FS

const (
	MigrationCode = "composer"
	migrationPath = "db/migrations"

	// TableName the target table the migrations evolve
	TableName = "composer"
)

// GetMigrationList returns this package's migration list, with the
// expected final shape declared for the drift check
func GetMigrationList() (ml *migration.List) {
	ml = migration.NewList(MigrationCode, migrationPath, migrations)
	ml.SetExpectedShape(TableName, ExpectedShape())
	return ml
}

// ExpectedShape the column shape the composer table has once every
// migration in this package has been applied
func ExpectedShape() []migmodel.ColumnShape {
	return []migmodel.ColumnShape{
		{Name: "composer_id", Nullable: false},
		{Name: "composer_full_name", Nullable: false},
		{Name: "composer_name", Nullable: false},
		{Name: "composer_birth_year", Nullable: true},
		{Name: "composer_death_year", Nullable: true},
		{Name: "composer_nationality", Nullable: true},
		{Name: "created_on", Nullable: false},
		{Name: "updated_on", Nullable: false},
	}
}
