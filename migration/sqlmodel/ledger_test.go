package sqlmodel

import (
	dbsql "database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clefbase/clefbase/sql"
)

var errCursorLost = errors.New("connection reset during read")

// truncDriver serves one ledger row and then fails the cursor, standing
// in for a connection dropped mid read
type truncDriver struct{}

func (truncDriver) Open(string) (driver.Conn, error) { return &truncConn{}, nil }

type truncConn struct{}

func (*truncConn) Prepare(query string) (driver.Stmt, error) { return &truncStmt{}, nil }
func (*truncConn) Close() error                              { return nil }
func (*truncConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

type truncStmt struct{}

func (*truncStmt) Close() error  { return nil }
func (*truncStmt) NumInput() int { return 0 }
func (*truncStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("exec not supported")
}
func (*truncStmt) Query([]driver.Value) (driver.Rows, error) {
	return &truncRows{}, nil
}

type truncRows struct {
	served bool
}

func (*truncRows) Columns() []string {
	return []string{"clef_migration_code", "applied_at"}
}

func (*truncRows) Close() error { return nil }

func (r *truncRows) Next(dest []driver.Value) error {
	if r.served {
		return errCursorLost
	}
	r.served = true
	dest[0] = "migration/001_create_ledger"
	dest[1] = time.Now()
	return nil
}

func init() {
	dbsql.Register("ledgertrunc", truncDriver{})
}

func TestAppliedSurfacesCursorError(t *testing.T) {
	db, err := dbsql.Open("ledgertrunc", "")
	require.NoError(t, err)
	defer db.Close()

	l := NewLedger(&sql.Connection{DB: db})

	// The read dies after the first row; a partial ledger must surface as
	// an error, never as a shorter applied list
	leList, err := l.Applied()
	require.Error(t, err)
	assert.Contains(t, err.Error(), errCursorLost.Error())
	assert.Nil(t, leList)
}
