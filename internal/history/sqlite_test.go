package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndHasSucceeded(t *testing.T) {
	store := newTestStore(t)

	ok, err := store.HasSucceeded("https://jobs/1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Record(Attempt{
		JobURL:  "https://jobs/1",
		Resume:  "backend.pdf",
		Outcome: "failed_stuck",
		Detail:  "no actionable control",
	}))

	// A failed attempt does not count as done.
	ok, err = store.HasSucceeded("https://jobs/1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Record(Attempt{
		JobURL:  "https://jobs/1",
		Resume:  "backend.pdf",
		Outcome: "success",
	}))

	ok, err = store.HasSucceeded("https://jobs/1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.HasSucceeded("https://jobs/other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecent(t *testing.T) {
	store := newTestStore(t)

	for _, url := range []string{"https://jobs/1", "https://jobs/2", "https://jobs/3"} {
		require.NoError(t, store.Record(Attempt{JobURL: url, Resume: "r.pdf", Outcome: "success"}))
	}

	attempts, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	// Newest first.
	assert.Equal(t, "https://jobs/3", attempts[0].JobURL)
	assert.Equal(t, "https://jobs/2", attempts[1].JobURL)
	assert.False(t, attempts[0].CreatedAt.IsZero())
}

func TestStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := New(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(Attempt{JobURL: "https://jobs/1", Resume: "r.pdf", Outcome: "success"}))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	ok, err := reopened.HasSucceeded("https://jobs/1")
	require.NoError(t, err)
	assert.True(t, ok)
}
