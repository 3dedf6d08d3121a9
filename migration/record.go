package migration

import (
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/migration/model"
)

const (
	ECode010201 = e.Code0102 + "01"
	ECode010202 = e.Code0102 + "02"
	ECode010203 = e.Code0102 + "03"
	ECode010204 = e.Code0102 + "04"
	ECode010205 = e.Code0102 + "05"

	repairSuffix = ".repair.sql"
	sqlSuffix    = ".sql"
)

// Record an immutable description of one schema change. Records are
// defined once by whoever authors a change and are never mutated or
// deleted afterwards, since the ledger references them by ID.
type Record struct {
	// ID stable unique id, "<set code>/<file base name>"
	ID string
	// Sequence monotonic ordering key parsed from the file name prefix.
	// Ties across sets are broken by lexical ID order.
	Sequence int
	// Statements schema-change statements, executed in listed order
	Statements []string
	// DataRepairs optional data-mutation statements run before the
	// structural statements. When a column is being tightened the repair
	// must fill legacy data first or the structural statement can fail,
	// so this ordering is a correctness invariant.
	DataRepairs []string
}

// List one set of migration files belonging to a single owner (the
// migration package itself, the composer table, ...). Files live on an
// fs.FS so production uses embed.FS and tests use fstest.MapFS.
//
// File naming: NNN_name.sql holds the structural statements, and an
// optional sibling NNN_name.repair.sql holds the data repairs for the
// same change.
type List struct {
	code  string
	path  string
	fsys  fs.FS
	table string
	shape []model.ColumnShape
}

// NewList initializes a new list
func NewList(code, path string, fsys fs.FS) (l *List) {
	return &List{
		code: code,
		path: path,
		fsys: fsys,
	}
}

// Code returns the list's set code
func (l *List) Code() string {
	return l.code
}

// SetExpectedShape declares the final column shape of the table this
// list migrates, enabling the advisory drift check after apply
func (l *List) SetExpectedShape(table string, shape []model.ColumnShape) {
	l.table = table
	l.shape = shape
}

// ExpectedShape returns the declared table/shape, if any
func (l *List) ExpectedShape() (table string, shape []model.ColumnShape) {
	return l.table, l.shape
}

// sequenceFromName parses the ordering key from a migration file name.
// The name is expected to have the sequence first as a 0 padded number
// and then an underscore. The rest of the name can be anything.
func sequenceFromName(name string) (seq int, err error) {
	base, _, found := strings.Cut(name, "_")
	if !found {
		return 0, e.N(ECode010201, e.MsgMigrationFileNameInvalid)
	}

	seq, err = strconv.Atoi(base)
	if err != nil || seq <= 0 {
		return 0, e.N(ECode010202,
			fmt.Sprintf("%s: %s", e.MsgMigrationFileNameInvalid, name))
	}

	return seq, nil
}

// Records loads all of the list's migration files, pairs repair files
// with their structural files, validates sequences and returns the
// records ordered by sequence
func (l *List) Records() (rList []*Record, err error) {
	dirList, err := fs.ReadDir(l.fsys, l.path)
	if err != nil {
		return nil, e.W(err, ECode010203)
	}

	byBase := map[string]*Record{}
	repairs := map[string][]string{}

	for _, file := range dirList {
		if file.IsDir() {
			continue
		}

		name := file.Name()
		raw, err := fs.ReadFile(l.fsys, l.path+"/"+name)
		if err != nil {
			return nil, e.W(err, ECode010203, name)
		}

		if strings.HasSuffix(name, repairSuffix) {
			base := strings.TrimSuffix(name, repairSuffix)
			repairs[base] = SplitStatements(string(raw))
			continue
		}

		if !strings.HasSuffix(name, sqlSuffix) {
			continue
		}

		base := strings.TrimSuffix(name, sqlSuffix)
		seq, err := sequenceFromName(base)
		if err != nil {
			return nil, e.W(err, ECode010204, name)
		}

		byBase[base] = &Record{
			ID:         l.code + "/" + base,
			Sequence:   seq,
			Statements: SplitStatements(string(raw)),
		}
	}

	seen := map[int]string{}
	for base, r := range byBase {
		if prev, ok := seen[r.Sequence]; ok {
			return nil, e.N(ECode010205, fmt.Sprintf("%s: %s and %s",
				e.MsgMigrationDuplicateSequence, prev, base))
		}
		seen[r.Sequence] = base

		if reps, ok := repairs[base]; ok {
			r.DataRepairs = reps
		}
		rList = append(rList, r)
	}

	// A repair file without a structural sibling is a naming mistake
	for base := range repairs {
		if _, ok := byBase[base]; !ok {
			return nil, e.N(ECode010204, fmt.Sprintf("%s: %s%s",
				e.MsgMigrationFileNameInvalid, base, repairSuffix))
		}
	}

	sort.Slice(rList, func(i, j int) bool {
		if rList[i].Sequence != rList[j].Sequence {
			return rList[i].Sequence < rList[j].Sequence
		}
		return rList[i].ID < rList[j].ID
	})

	return rList, nil
}
