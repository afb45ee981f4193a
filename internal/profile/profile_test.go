package profile

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ReiTony/petllm/datastore"
)

func newTestStore(t *testing.T) *DatastoreStore {
	t.Helper()
	ds, err := datastore.New(filepath.Join(t.TempDir(), "owners.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })
	return NewDatastoreStore(ds)
}

func TestGetOrCreateSeedsNewProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	prof, err := s.GetOrCreate(ctx, "42", Seed{Email: "jake@example.com", FirstName: "Jake"})
	require.NoError(t, err)
	assert.Equal(t, "42", prof.UserID)
	assert.Equal(t, "Jake", prof.FirstName)
	assert.Empty(t, prof.Biography)
	assert.Equal(t, "en", prof.Preferences["default_language"])
	assert.False(t, prof.CreatedAt.IsZero())

	// Second call returns the existing document, seed ignored.
	again, err := s.GetOrCreate(ctx, "42", Seed{FirstName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "Jake", again.FirstName)
}

func TestGetAbsentOwnerReturnsNil(t *testing.T) {
	s := newTestStore(t)

	prof, err := s.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, prof)
}

func TestMergeFacts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	facts := map[string]any{"name": "Jake", "favorite_color": "red"}
	require.NoError(t, s.MergeFacts(ctx, "7", facts))

	prof, err := s.Get(ctx, "7")
	require.NoError(t, err)
	require.NotNil(t, prof)
	assert.Equal(t, "Jake", prof.Biography["name"])
	assert.Equal(t, "red", prof.Biography["favorite_color"])
	// A name fact also updates the display name.
	assert.Equal(t, "Jake", prof.FirstName)

	// Idempotent for identical payloads.
	require.NoError(t, s.MergeFacts(ctx, "7", facts))
	again, err := s.Get(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, prof.Biography, again.Biography)
}

func TestMergeFactsUpsertsWithoutDeleting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.MergeFacts(ctx, "7", map[string]any{"location": "California"}))
	require.NoError(t, s.MergeFacts(ctx, "7", map[string]any{"favorite_music": "rock"}))
	require.NoError(t, s.MergeFacts(ctx, "7", map[string]any{"location": "Oregon"}))

	prof, err := s.Get(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "Oregon", prof.Biography["location"])
	assert.Equal(t, "rock", prof.Biography["favorite_music"])
}

func TestConcurrentMergesCommuteForDisjointKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	const writers = 30
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("fact_%d", n)
			assert.NoError(t, s.MergeFacts(ctx, "9", map[string]any{key: n}))
		}(i)
	}
	wg.Wait()

	prof, err := s.Get(ctx, "9")
	require.NoError(t, err)
	require.Len(t, prof.Biography, writers)
}

func TestRenderBiography(t *testing.T) {
	assert.Empty(t, RenderBiography(nil))
	assert.Empty(t, RenderBiography(&Profile{}))

	out := RenderBiography(&Profile{Biography: map[string]any{
		"name":           "Jake",
		"favorite_color": "red",
	}})
	assert.Equal(t, "- favorite_color: red\n- name: Jake", out)
}
