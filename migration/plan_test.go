package migration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clefbase/clefbase/e"
	"github.com/clefbase/clefbase/migration/model"
)

func rec(id string, seq int) *Record {
	return &Record{ID: id, Sequence: seq}
}

func entry(id string) *model.LedgerEntry {
	return &model.LedgerEntry{MigrationID: id, AppliedAt: time.Now()}
}

func TestPlanEmptyLedger(t *testing.T) {
	known := []*Record{
		rec("app/002_b", 2),
		rec("app/001_a", 1),
		rec("app/003_c", 3),
	}

	pending, err := Plan(known, nil)
	require.NoError(t, err)

	require.Len(t, pending, 3)
	assert.Equal(t, "app/001_a", pending[0].ID)
	assert.Equal(t, "app/002_b", pending[1].ID)
	assert.Equal(t, "app/003_c", pending[2].ID)
}

func TestPlanSkipsApplied(t *testing.T) {
	known := []*Record{
		rec("app/001_a", 1),
		rec("app/002_b", 2),
		rec("app/003_c", 3),
	}
	applied := []*model.LedgerEntry{
		entry("app/001_a"),
		entry("app/002_b"),
	}

	pending, err := Plan(known, applied)
	require.NoError(t, err)

	require.Len(t, pending, 1)
	assert.Equal(t, "app/003_c", pending[0].ID)
}

func TestPlanAllApplied(t *testing.T) {
	known := []*Record{
		rec("app/001_a", 1),
		rec("app/002_b", 2),
	}
	applied := []*model.LedgerEntry{
		entry("app/002_b"),
		entry("app/001_a"),
	}

	pending, err := Plan(known, applied)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestPlanSequenceTieBrokenByID(t *testing.T) {
	known := []*Record{
		rec("zoo/001_init", 1),
		rec("app/001_init", 1),
	}

	pending, err := Plan(known, nil)
	require.NoError(t, err)

	require.Len(t, pending, 2)
	assert.Equal(t, "app/001_init", pending[0].ID)
	assert.Equal(t, "zoo/001_init", pending[1].ID)
}

func TestPlanUnknownApplied(t *testing.T) {
	known := []*Record{
		rec("app/001_a", 1),
	}
	applied := []*model.LedgerEntry{
		entry("app/001_a"),
		entry("app/009_gone"),
	}

	pending, err := Plan(known, applied)
	require.Error(t, err)
	assert.Nil(t, pending)
	assert.True(t, e.ContainsError(err, e.MsgMigrationUnknownApplied))
	assert.Contains(t, err.Error(), "app/009_gone")
}

func TestPlanDeterministic(t *testing.T) {
	known := []*Record{
		rec("app/003_c", 3),
		rec("app/001_a", 1),
		rec("app/002_b", 2),
	}
	applied := []*model.LedgerEntry{
		entry("app/002_b"),
	}

	first, err := Plan(known, applied)
	require.NoError(t, err)

	second, err := Plan(known, applied)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
