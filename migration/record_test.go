package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clefbase/clefbase/e"
)

func TestListRecords(t *testing.T) {
	fsys := fstest.MapFS{
		"db/migrations/001_create.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE a (id INT);\nCREATE INDEX a_idx ON a (id);"),
		},
		"db/migrations/002_alter.sql": &fstest.MapFile{
			Data: []byte("ALTER TABLE a ADD COLUMN name TEXT;"),
		},
	}

	l := NewList("app", "db/migrations", fsys)
	rList, err := l.Records()
	require.NoError(t, err)

	require.Len(t, rList, 2)
	assert.Equal(t, "app/001_create", rList[0].ID)
	assert.Equal(t, 1, rList[0].Sequence)
	assert.Len(t, rList[0].Statements, 2)
	assert.Empty(t, rList[0].DataRepairs)
	assert.Equal(t, "app/002_alter", rList[1].ID)
	assert.Equal(t, 2, rList[1].Sequence)
}

func TestListRecordsPairsRepairFile(t *testing.T) {
	fsys := fstest.MapFS{
		"db/migrations/001_create.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE a (id INT, name TEXT);"),
		},
		"db/migrations/002_tighten.sql": &fstest.MapFile{
			Data: []byte("ALTER TABLE a ALTER COLUMN name SET NOT NULL;"),
		},
		"db/migrations/002_tighten.repair.sql": &fstest.MapFile{
			Data: []byte("UPDATE a SET name = 'unknown' WHERE name IS NULL;"),
		},
	}

	l := NewList("app", "db/migrations", fsys)
	rList, err := l.Records()
	require.NoError(t, err)

	require.Len(t, rList, 2)
	require.Len(t, rList[1].DataRepairs, 1)
	assert.Contains(t, rList[1].DataRepairs[0], "WHERE name IS NULL")
	require.Len(t, rList[1].Statements, 1)
	assert.Contains(t, rList[1].Statements[0], "SET NOT NULL")
}

func TestListRecordsOrphanRepair(t *testing.T) {
	fsys := fstest.MapFS{
		"db/migrations/001_create.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE a (id INT);"),
		},
		"db/migrations/002_fix.repair.sql": &fstest.MapFile{
			Data: []byte("UPDATE a SET id = 0;"),
		},
	}

	l := NewList("app", "db/migrations", fsys)
	_, err := l.Records()
	require.Error(t, err)
	assert.True(t, e.ContainsError(err, e.MsgMigrationFileNameInvalid))
}

func TestListRecordsBadFileName(t *testing.T) {
	tests := []string{
		"nounderscores.sql",
		"abc_letters.sql",
		"000_zero.sql",
		"-1_negative.sql",
	}

	for _, name := range tests {
		fsys := fstest.MapFS{
			"db/migrations/" + name: &fstest.MapFile{
				Data: []byte("SELECT 1;"),
			},
		}

		l := NewList("app", "db/migrations", fsys)
		_, err := l.Records()
		require.Error(t, err, name)
		assert.True(t, e.ContainsError(err, e.MsgMigrationFileNameInvalid), name)
	}
}

func TestListRecordsDuplicateSequence(t *testing.T) {
	fsys := fstest.MapFS{
		"db/migrations/001_first.sql": &fstest.MapFile{
			Data: []byte("SELECT 1;"),
		},
		"db/migrations/001_second.sql": &fstest.MapFile{
			Data: []byte("SELECT 2;"),
		},
	}

	l := NewList("app", "db/migrations", fsys)
	_, err := l.Records()
	require.Error(t, err)
	assert.True(t, e.ContainsError(err, e.MsgMigrationDuplicateSequence))
}

func TestListRecordsIgnoresNonSQL(t *testing.T) {
	fsys := fstest.MapFS{
		"db/migrations/001_create.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE a (id INT);"),
		},
		"db/migrations/README.md": &fstest.MapFile{
			Data: []byte("notes"),
		},
	}

	l := NewList("app", "db/migrations", fsys)
	rList, err := l.Records()
	require.NoError(t, err)
	assert.Len(t, rList, 1)
}

func TestSequenceFromName(t *testing.T) {
	seq, err := sequenceFromName("012_add_column")
	require.NoError(t, err)
	assert.Equal(t, 12, seq)

	_, err = sequenceFromName("noprefix")
	require.Error(t, err)
}
