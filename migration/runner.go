package migration

import (
	"context"
	dbsql "database/sql"
	"fmt"
	"time"

	"github.com/clefbase/clefbase/e"
	"github.com/rs/zerolog/log"
)

const (
	ECode010401 = e.Code0104 + "01"
	ECode010402 = e.Code0104 + "02"
	ECode010403 = e.Code0104 + "03"
	ECode010404 = e.Code0104 + "04"
	ECode010405 = e.Code0104 + "05"
	ECode010406 = e.Code0104 + "06"
)

// Store the subset of *sql.Connection the runner needs: statement
// execution and a transaction boundary. Kept narrow so tests can run the
// executor against an in-memory substitute.
type Store interface {
	Begin() error
	Commit() error
	Rollback()
	ExecContext(ctx context.Context, query string, args ...interface{}) (dbsql.Result, error)
}

// Ledger persistent record of which migrations have been run. Record is
// expected to participate in the store's current transaction so the
// ledger row commits or rolls back with the migration itself.
type Ledger interface {
	Record(migrationID string) error
}

// State the overall run state
type State string

const (
	StatePlanned  State = "planned"
	StateRunning  State = "running"
	StateComplete State = "complete"
	// StateFailed is re-enterable: a fresh plan computed from the
	// updated ledger allows forward progress. The runner never retries
	// on its own.
	StateFailed State = "failed"
)

// Outcome result of one attempted migration
type Outcome string

const (
	OutcomeApplied Outcome = "applied"
	OutcomeFailed  Outcome = "failed"
)

// Attempt one report entry per migration attempted
type Attempt struct {
	ID       string
	Outcome  Outcome
	Duration time.Duration
}

// Report what a run did, for observability. One Attempt per migration
// attempted; no other global state is produced.
type Report struct {
	State    State
	Attempts []Attempt
}

// Runner applies pending migrations one at a time inside a per-migration
// failure boundary, updating the ledger only on success. The runner
// assumes the caller provides mutual exclusion; at most one runner may
// execute against a given target at a time.
type Runner struct {
	store       Store
	ledger      Ledger
	stmtTimeout time.Duration
}

// NewRunner initializes a new runner
func NewRunner(store Store, ledger Ledger) (r *Runner) {
	return &Runner{
		store:  store,
		ledger: ledger,
	}
}

// SetStatementTimeout sets a per-statement execution timeout. Zero means
// no timeout. A timed out statement fails its migration with the same
// rollback semantics as any other failure.
func (r *Runner) SetStatementTimeout(d time.Duration) {
	r.stmtTimeout = d
}

// Run processes the pending records strictly in order. For each record
// it executes the data repairs (if any) in order, then the structural
// statements in order, inside a single transaction boundary scoped to
// that record only. On success exactly one ledger entry is written and
// the boundary committed. On any failure the boundary is rolled back and
// processing stops immediately, since later migrations may assume the
// failed one succeeded.
//
// Cancellation is cooperative at migration boundaries: an in-flight
// record's statements are not individually cancellable, but no further
// record starts once ctx is done.
func (r *Runner) Run(ctx context.Context, pending []*Record) (rep *Report, err error) {
	rep = &Report{State: StatePlanned}
	if len(pending) == 0 {
		rep.State = StateComplete
		return rep, nil
	}

	rep.State = StateRunning
	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			rep.State = StateFailed
			return rep, e.W(err, ECode010401, e.MsgMigrationCancelled)
		}

		start := time.Now()
		if err := r.apply(ctx, rec); err != nil {
			rep.Attempts = append(rep.Attempts, Attempt{
				ID:       rec.ID,
				Outcome:  OutcomeFailed,
				Duration: time.Since(start),
			})
			rep.State = StateFailed
			return rep, e.W(err, ECode010402,
				fmt.Sprintf("%s: %s", e.MsgMigrationFailed, rec.ID))
		}

		rep.Attempts = append(rep.Attempts, Attempt{
			ID:       rec.ID,
			Outcome:  OutcomeApplied,
			Duration: time.Since(start),
		})
		log.Info().Msgf("successfully migrated '%s'", rec.ID)
	}

	rep.State = StateComplete
	return rep, nil
}

// apply runs one record inside its own transaction boundary
func (r *Runner) apply(ctx context.Context, rec *Record) (err error) {
	if err := r.store.Begin(); err != nil {
		return e.W(err, ECode010403)
	}

	// Data repair always precedes structural tightening; the structural
	// statements can fail against legacy data otherwise
	for i, stmt := range rec.DataRepairs {
		if err := r.execStatement(ctx, stmt); err != nil {
			r.store.Rollback()
			return e.W(err, ECode010404, fmt.Sprintf("repair %d", i))
		}
	}

	for i, stmt := range rec.Statements {
		if err := r.execStatement(ctx, stmt); err != nil {
			r.store.Rollback()
			return e.W(err, ECode010405, fmt.Sprintf("statement %d", i))
		}
	}

	// The ledger insert rides in the same boundary, so the entry exists
	// exactly when the migration's effects do
	if err := r.ledger.Record(rec.ID); err != nil {
		r.store.Rollback()
		return e.W(err, ECode010406)
	}

	return r.store.Commit()
}

func (r *Runner) execStatement(ctx context.Context, stmt string) (err error) {
	if r.stmtTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.stmtTimeout)
		defer cancel()
	}

	_, err = r.store.ExecContext(ctx, stmt)
	return err
}
