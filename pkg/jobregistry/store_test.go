package jobregistry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreWriteAndGet(t *testing.T) {
	store := NewStore(t.TempDir())

	now := time.Now().UTC()
	exit := 0
	rec := &JobRecord{
		JobID:     "job-1",
		Name:      "nightly",
		Kind:      JobKindImport,
		State:     JobStateSuccess,
		Command:   `sqoop import --password "*****"`,
		ExitCode:  &exit,
		CreatedAt: now,
		StartedAt: &now,
	}
	require.NoError(t, store.Write(rec))

	got, err := store.Get("job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.JobID)
	assert.Equal(t, JobKindImport, got.Kind)
	assert.Equal(t, JobStateSuccess, got.State)
	require.NotNil(t, got.ExitCode)
	assert.Equal(t, 0, *got.ExitCode)
	assert.Contains(t, got.Command, "*****")
}

func TestStoreWriteValidation(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.Error(t, store.Write(nil))
	assert.Error(t, store.Write(&JobRecord{}))
	assert.Error(t, NewStore("").Write(&JobRecord{JobID: "x"}))
}

func TestStoreListNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.Write(&JobRecord{
			JobID:     id,
			Kind:      JobKindSpark,
			State:     JobStateFailed,
			CreatedAt: ts,
			StartedAt: &ts,
		}))
	}

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "new", records[0].JobID)
	assert.Equal(t, "old", records[2].JobID)
}

func TestStoreListSkipsNonJobEntries(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	require.NoError(t, store.Write(&JobRecord{
		JobID:     "real",
		Kind:      JobKindImport,
		State:     JobStateSuccess,
		CreatedAt: time.Now().UTC(),
	}))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty-dir"), 0755))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "real", records[0].JobID)
}

func TestGetMarksDeadRunningJobUnknown(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Write(&JobRecord{
		JobID:     "zombie",
		Kind:      JobKindSpark,
		State:     JobStateRunning,
		PID:       999999, // no such process
		CreatedAt: time.Now().UTC(),
	}))

	got, err := store.Get("zombie")
	require.NoError(t, err)
	assert.Equal(t, JobStateUnknown, got.State)
}
