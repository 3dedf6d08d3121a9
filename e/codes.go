package e

// Constants in here define error codes that are unique to a package/file.
// The first two characters define the package, within this repo, and the
// second two characters define the file within that package. Call sites
// append a two character unique id within the file via the ECode constants
// defined near the top of each file.
//
// Valid values for the characters are: 0-9 and A-Z.

const (
	// package: migration
	Code0101 = "0101" // package:migration | migration/migration.go
	Code0102 = "0102" // package:migration | migration/record.go
	Code0103 = "0103" // package:migration | migration/plan.go
	Code0104 = "0104" // package:migration | migration/runner.go
	Code0105 = "0105" // package:migration | migration/verify.go
	Code0107 = "0107" // package:migration/sqlmodel | migration/sqlmodel/ledger.go

	// package: sql
	Code0201 = "0201" // package:sql | sql/sql.go
	Code0202 = "0202" // package:sql | sql/row.go
	Code0203 = "0203" // package:sql | sql/rows.go
	Code0204 = "0204" // package:sql | sql/count.go

	// package: composer
	Code0302 = "0302" // package:composer/sqlmodel | composer/sqlmodel/composer.go
	Code0303 = "0303" // package:composer | composer/seed.go
	Code0304 = "0304" // package:composer | composer/store.go
)
