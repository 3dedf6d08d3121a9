package migration

import (
	"fmt"

	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/migration/model"
	"github.com/clefbase/clefbase/sql"
)

const (
	ECode010501 = e.Code0105 + "01"
	ECode010502 = e.Code0105 + "02"
	ECode010503 = e.Code0105 + "03"
)

// Drift one advisory finding from the shape check
type Drift struct {
	Column string
	Detail string
}

func (d Drift) String() string {
	return fmt.Sprintf("%s: %s", d.Column, d.Detail)
}

// Verify compares the live shape of the named table (column existence
// and nullability, from information_schema) against the expected shape.
// Findings are advisory: schema introspection is heuristic and varies by
// backend, so the caller decides whether a mismatch is fatal (strict
// mode) or just logged.
func Verify(db *sql.Connection, table string, expected []model.ColumnShape) (drifts []Drift, err error) {
	rows, err := db.Query(`
		SELECT column_name, is_nullable
		FROM information_schema.columns
		WHERE table_name = $1
		AND table_schema = current_schema()`, table)
	if err != nil {
		return nil, e.W(err, ECode010501)
	}
	defer rows.Close()

	live := map[string]bool{}
	for rows.Next() {
		var name, nullable string
		if err := rows.Scan(&name, &nullable); err != nil {
			return nil, e.W(err, ECode010502)
		}
		live[name] = nullable == "YES"
	}
	if err := rows.Err(); err != nil {
		return nil, e.W(err, ECode010503)
	}

	expectedByName := map[string]bool{}
	for _, col := range expected {
		expectedByName[col.Name] = col.Nullable

		nullable, ok := live[col.Name]
		if !ok {
			drifts = append(drifts, Drift{Column: col.Name, Detail: "column missing"})
			continue
		}
		if nullable != col.Nullable {
			drifts = append(drifts, Drift{
				Column: col.Name,
				Detail: fmt.Sprintf("nullable is %t, expected %t", nullable, col.Nullable),
			})
		}
	}

	for name := range live {
		if _, ok := expectedByName[name]; !ok {
			drifts = append(drifts, Drift{Column: name, Detail: "unexpected column"})
		}
	}

	return drifts, nil
}
