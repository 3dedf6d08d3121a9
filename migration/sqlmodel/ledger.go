package sqlmodel

import (
	"fmt"

	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/migration/model"
	"github.com/clefbase/clefbase/sql"
)

const (
	LedgerTableName = "clef_migration"

	ECode010701 = e.Code0107 + "01"
	ECode010702 = e.Code0107 + "02"
	ECode010703 = e.Code0107 + "03"
	ECode010704 = e.Code0107 + "04"
	ECode010705 = e.Code0107 + "05"
)

// Ledger sqlmodel for the clef_migration table. Because the Connection
// routes through its active transaction, Record participates in whatever
// boundary the executor has open.
type Ledger struct {
	db *sql.Connection
}

// NewLedger initializes the ledger over the given connection
func NewLedger(db *sql.Connection) (l *Ledger) {
	return &Ledger{db: db}
}

// Applied returns all ledger entries, oldest first
func (l *Ledger) Applied() (leList []*model.LedgerEntry, err error) {
	sb := l.db.Select("clef_migration_code, applied_at").
		From(LedgerTableName).
		OrderBy("applied_at", "clef_migration_code")

	rows, err := l.db.ToSQLAndQuery(sb)
	if err != nil {
		// A missing ledger table means the migration system itself has
		// not been installed yet
		if e.IsPQError(err, e.PQErr42P01) {
			return nil, e.N(ECode010701, e.MsgMigrationNotInstalled)
		}
		return nil, e.W(err, ECode010702)
	}
	defer rows.Close()

	for rows.Next() {
		le := &model.LedgerEntry{}
		if err := rows.Scan(&le.MigrationID, &le.AppliedAt); err != nil {
			return nil, e.W(err, ECode010703)
		}
		leList = append(leList, le)
	}

	// A partial read must not pass for a complete ledger; the planner
	// would treat the missing entries as pending
	if err := rows.Err(); err != nil {
		return nil, e.W(err, ECode010705)
	}

	return leList, nil
}

// Record inserts the ledger entry for the migration. applied_at is set
// by the database, never by the caller. At most one entry may exist per
// migration id; a second insert violates the primary key.
func (l *Ledger) Record(migrationID string) (err error) {
	ib := l.db.Insert(LedgerTableName).
		Columns("clef_migration_code").
		Values(migrationID)

	if err := l.db.ExecInsert(ib); err != nil {
		if e.IsPQError(err, e.PQErr23505UniqueViolation) {
			return e.N(ECode010704, fmt.Sprintf("%s: %s",
				e.MsgMigrationAlreadyRecorded, migrationID))
		}
		return e.W(err, ECode010704, migrationID)
	}

	return nil
}
