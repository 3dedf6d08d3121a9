package migration

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/migration/model"
)

const (
	ECode010301 = e.Code0103 + "01"
)

// Plan computes the ordered subset of known records still pending, given
// the applied-migration ledger. Pure function: no I/O, deterministic for
// the same inputs.
//
// The result is known minus applied (by migration id), ordered by
// sequence with ties broken by lexical id. If the ledger references an
// id that is not in known, the code has rolled back past a migration
// still recorded as applied; that is reported as an error rather than
// silently ignored, because proceeding could re-run or skip steps
// incorrectly.
func Plan(known []*Record, applied []*model.LedgerEntry) (pending []*Record, err error) {
	knownByID := make(map[string]struct{}, len(known))
	for _, r := range known {
		knownByID[r.ID] = struct{}{}
	}

	appliedByID := make(map[string]struct{}, len(applied))
	var unknown []string
	for _, le := range applied {
		appliedByID[le.MigrationID] = struct{}{}
		if _, ok := knownByID[le.MigrationID]; !ok {
			unknown = append(unknown, le.MigrationID)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, e.N(ECode010301, fmt.Sprintf("%s: %s",
			e.MsgMigrationUnknownApplied, strings.Join(unknown, ", ")))
	}

	for _, r := range known {
		if _, ok := appliedByID[r.ID]; ok {
			continue
		}
		pending = append(pending, r)
	}

	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Sequence != pending[j].Sequence {
			return pending[i].Sequence < pending[j].Sequence
		}
		return pending[i].ID < pending[j].ID
	})

	return pending, nil
}
