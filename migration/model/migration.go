package model

import "time"

// LedgerEntry one row of the applied-migration ledger. Entries are
// written by the executor only, exactly once per migration, inside that
// migration's transaction boundary.
type LedgerEntry struct {
	MigrationID string
	AppliedAt   time.Time
}

// ColumnShape the observable shape of one column, used by the drift
// check. Only existence and nullability are compared; finer-grained
// introspection varies too much by backend to be worth asserting.
type ColumnShape struct {
	Name     string
	Nullable bool
}
