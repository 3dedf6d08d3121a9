package sql

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/clefbase/clefbase/e"
)

const (
	// FieldPlaceHolder placeholder that QueryCount swaps for count(*)
	FieldPlaceHolder = "<FIELD_PLACE_HOLDER>"
	// FieldCount the count field QueryCount swaps in
	FieldCount = "count(*) AS cnt"

	ECode020401 = e.Code0204 + "01"
	ECode020402 = e.Code0204 + "02"
)

// QueryCount gets the count from a select builder query. The builder is
// expected to select FieldPlaceHolder, which is swapped for count(*)
// before executing. Would prefer being able to generate the same query
// with different fields, but that doesn't seem possible with the current
// library being used.
func (c *Connection) QueryCount(sb sq.SelectBuilder) (count int, err error) {
	// Get the count before applying an offset
	stmt, bindParams, err := sb.ToSql()
	if err != nil {
		return 0, e.W(err, ECode020401)
	}

	cntStmt := strings.Replace(stmt, FieldPlaceHolder, FieldCount, 1)
	row := c.QueryRow(cntStmt, bindParams...)
	if err := row.Scan(&count); err != nil {
		return 0, e.W(err, ECode020402,
			fmt.Sprintf("bindParams: %+v", bindParams))
	}

	return count, nil
}
