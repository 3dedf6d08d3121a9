// Package migration provides a ledger-backed schema migration runner.
// Migrations are versioned one-way SQL files grouped into Lists; the
// applied-migration ledger lives in the clef_migration table. A pure
// planner computes the pending subset and the runner applies each
// pending migration inside its own transaction boundary, recording the
// ledger entry only on success. Re-running is always safe: applied
// migrations are never re-executed.
//
// Basic usage (errors ignored for example code):
//
//	m, _ := migration.NewMigrator(db)
//	m.AddList(composer.GetMigrationList())
//	report, _ := m.Upgrade(ctx)
package migration

import (
	"context"
	dbsql "database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/migration/model"
	"github.com/clefbase/clefbase/migration/sqlmodel"
	"github.com/clefbase/clefbase/sql"
	"github.com/rs/zerolog/log"
)

// Embed the ledger's own migrations into the app, so that applications
// that include this package can bootstrap the ledger table themselves

//go:embed db/migrations/*
var migrations embed.FS

const (
	MigrationCode = "migration"
	migrationPath = "db/migrations"

	// advisoryLockKey fixed key used to serialize runners against one
	// database ("clef" in hex)
	advisoryLockKey = int64(0x636c6566)

	ECode010101 = e.Code0101 + "01"
	ECode010102 = e.Code0101 + "02"
	ECode010103 = e.Code0101 + "03"
	ECode010104 = e.Code0101 + "04"
	ECode010105 = e.Code0101 + "05"
	ECode010106 = e.Code0101 + "06"
	ECode010107 = e.Code0101 + "07"
	ECode010108 = e.Code0101 + "08"
	ECode010109 = e.Code0101 + "09"
	ECode01010A = e.Code0101 + "0A"
)

// Migrator ties the planner, runner, ledger and drift check together
// over one database connection
type Migrator struct {
	db          *sql.Connection
	ledger      *sqlmodel.Ledger
	lists       []*List
	strict      bool
	stmtTimeout time.Duration
	lockConn    *dbsql.Conn
}

// NewMigrator initializes a new migrator. The migrator always owns the
// first list: its own migrations create the ledger table.
func NewMigrator(db *sql.Connection) (m *Migrator, err error) {
	m = &Migrator{
		db:     db,
		ledger: sqlmodel.NewLedger(db),
	}
	m.AddList(NewList(MigrationCode, migrationPath, migrations))

	return m, nil
}

// AddList adds a migration list to the migrator
func (m *Migrator) AddList(l *List) {
	m.lists = append(m.lists, l)
}

// SetStrict makes drift findings fatal instead of advisory
func (m *Migrator) SetStrict(strict bool) {
	m.strict = strict
}

// SetStatementTimeout sets the per-statement timeout passed to the runner
func (m *Migrator) SetStatementTimeout(d time.Duration) {
	m.stmtTimeout = d
}

// known loads the records of every registered list
func (m *Migrator) known() (rList []*Record, err error) {
	for _, l := range m.lists {
		lr, err := l.Records()
		if err != nil {
			return nil, e.W(err, ECode010101, l.code)
		}
		rList = append(rList, lr...)
	}

	return rList, nil
}

// applied reads the ledger, installing it first when the table does not
// exist yet (a brand new database)
func (m *Migrator) applied() (leList []*model.LedgerEntry, err error) {
	leList, err = m.ledger.Applied()
	if err != nil {
		if !e.Contains(err, sqlmodel.ECode010701) {
			return nil, e.W(err, ECode010102)
		}

		if err := m.install(); err != nil {
			return nil, e.W(err, ECode010103)
		}

		// Try again now that the ledger is installed
		leList, err = m.ledger.Applied()
		if err != nil {
			return nil, e.W(err, ECode010104)
		}
	}

	return leList, nil
}

// install creates the ledger by running the migrator's own first record
// and recording it, in one boundary. It should only run once; applied
// handles when to call it.
func (m *Migrator) install() (err error) {
	rList, err := m.lists[0].Records()
	if err != nil {
		return e.W(err, ECode010105)
	}
	if len(rList) == 0 {
		return e.N(ECode010105, e.MsgMigrationInstallFailed)
	}

	first := rList[0]
	if err := m.db.Begin(); err != nil {
		return e.W(err, ECode010106)
	}

	for _, stmt := range first.Statements {
		if _, err := m.db.Exec(stmt); err != nil {
			m.db.Rollback()
			return e.W(err, ECode010106, e.MsgMigrationInstallFailed)
		}
	}

	if err := m.ledger.Record(first.ID); err != nil {
		m.db.Rollback()
		return e.W(err, ECode010106)
	}

	return m.db.Commit()
}

// Pending computes the ordered pending records from the full known set
// and the ledger
func (m *Migrator) Pending() (pending []*Record, err error) {
	known, err := m.known()
	if err != nil {
		return nil, e.W(err, ECode010107)
	}

	applied, err := m.applied()
	if err != nil {
		return nil, e.W(err, ECode010107)
	}

	pending, err = Plan(known, applied)
	if err != nil {
		return nil, e.W(err, ECode010107)
	}

	return pending, nil
}

// Applied returns the ledger entries, installing the ledger if needed
func (m *Migrator) Applied() (leList []*model.LedgerEntry, err error) {
	return m.applied()
}

// Upgrade plans and runs all pending migrations, holding a Postgres
// advisory lock for the duration so concurrent invocations against the
// same database wait rather than interleave. After a successful run the
// expected shapes of all registered lists are verified; findings are
// logged as warnings, or returned as an error in strict mode.
func (m *Migrator) Upgrade(ctx context.Context) (rep *Report, err error) {
	if err := m.lock(ctx); err != nil {
		return nil, e.W(err, ECode010108)
	}
	defer m.unlock()

	// A commit failure inside the runner leaves the connection's txn set;
	// close it before the lock is released
	defer m.db.RollbackIfInTxn()

	pending, err := m.Pending()
	if err != nil {
		return nil, e.W(err, ECode010108)
	}

	runner := NewRunner(m.db, m.ledger)
	runner.SetStatementTimeout(m.stmtTimeout)

	rep, err = runner.Run(ctx, pending)
	if err != nil {
		return rep, e.W(err, ECode010109)
	}

	if err := m.verifyLists(); err != nil {
		return rep, e.W(err, ECode010109)
	}

	return rep, nil
}

// verifyLists runs the advisory drift check for every list that declared
// an expected shape
func (m *Migrator) verifyLists() (err error) {
	for _, l := range m.lists {
		table, shape := l.ExpectedShape()
		if table == "" {
			continue
		}

		drifts, err := Verify(m.db, table, shape)
		if err != nil {
			return e.W(err, ECode01010A, table)
		}

		if len(drifts) == 0 {
			continue
		}

		for _, d := range drifts {
			log.Warn().Msgf("%s: table '%s' %s", e.MsgMigrationDrift, table, d)
		}
		if m.strict {
			return e.N(ECode01010A, fmt.Sprintf("%s: table '%s': %d finding(s)",
				e.MsgMigrationDrift, table, len(drifts)))
		}
	}

	return nil
}

// lock takes a session-level advisory lock on a dedicated connection, so
// lock and unlock are guaranteed to run in the same session regardless
// of pool scheduling
func (m *Migrator) lock(ctx context.Context) (err error) {
	m.lockConn, err = m.db.DB.Conn(ctx)
	if err != nil {
		return err
	}

	if _, err := m.lockConn.ExecContext(ctx,
		"SELECT pg_advisory_lock($1)", advisoryLockKey); err != nil {
		_ = m.lockConn.Close()
		m.lockConn = nil
		return err
	}

	return nil
}

func (m *Migrator) unlock() {
	if m.lockConn == nil {
		return
	}

	if _, err := m.lockConn.ExecContext(context.Background(),
		"SELECT pg_advisory_unlock($1)", advisoryLockKey); err != nil {
		log.Error().Err(err).Msg("failed to release migration advisory lock")
	}
	_ = m.lockConn.Close()
	m.lockConn = nil
}
