package datastore

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *DataStore {
	t.Helper()
	ds, err := New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func TestAddGetDelete(t *testing.T) {
	ds := newTestStore(t)

	ds.Add("k", map[string]any{"v": 1})
	got, ok := ds.Get("k")
	require.True(t, ok)
	require.NotNil(t, got)

	ds.Delete("k")
	_, ok = ds.Get("k")
	require.False(t, ok)
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	ds, err := New(path)
	require.NoError(t, err)
	ds.Add("owner:1", map[string]any{"first_name": "Jake"})
	require.NoError(t, ds.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("owner:1")
	require.True(t, ok)
	doc, ok := got.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Jake", doc["first_name"])
}

func TestUpdateSerializesConcurrentWriters(t *testing.T) {
	ds := newTestStore(t)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := ds.Update("log", func(current any) (any, error) {
				items, _ := current.([]any)
				return append(items, fmt.Sprintf("turn-%d", n)), nil
			})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, ok := ds.Get("log")
	require.True(t, ok)
	items := got.([]any)
	require.Len(t, items, writers)
}

func TestUpdateErrorLeavesValueUntouched(t *testing.T) {
	ds := newTestStore(t)
	ds.Add("k", "before")

	err := ds.Update("k", func(current any) (any, error) {
		return nil, fmt.Errorf("boom")
	})
	require.Error(t, err)

	got, _ := ds.Get("k")
	require.Equal(t, "before", got)
}

func TestClosedStoreRejectsWrites(t *testing.T) {
	ds, err := New(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)
	require.NoError(t, ds.Close())

	ds.Add("k", "v")
	_, ok := ds.Get("k")
	require.False(t, ok)
	require.Error(t, ds.Update("k", func(any) (any, error) { return "v", nil }))
}
