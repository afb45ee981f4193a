package facts

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ReiTony/petllm/datastore"
	"github.com/ReiTony/petllm/internal/profile"
	"github.com/ReiTony/petllm/pkg/jobmgr"
)

type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestProfiles(t *testing.T) profile.Store {
	t.Helper()
	ds, err := datastore.New(filepath.Join(t.TempDir(), "owners.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ds.Close() })
	return profile.NewDatastoreStore(ds)
}

func newExtractor(t *testing.T, p *fakeProvider, profiles profile.Store) (*Extractor, *jobmgr.Manager) {
	t.Helper()
	jm := jobmgr.NewManager(nil)
	return NewExtractor(p, profiles, jm, log.New(io.Discard)), jm
}

func TestRecoverJSONObject(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
		ok   bool
	}{
		{"bare object", `{"name": "Jake"}`, map[string]any{"name": "Jake"}, true},
		{"fenced", "```json\n{\"favorite_color\": \"red\"}\n```", map[string]any{"favorite_color": "red"}, true},
		{"prose around", `Sure! Here you go: {"location": "California"} Hope that helps.`, map[string]any{"location": "California"}, true},
		{"empty object", `{}`, map[string]any{}, true},
		{"no object", "I could not find any facts.", nil, false},
		{"broken json", `{"name": "Jake`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RecoverJSONObject(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractAndSaveMergesFacts(t *testing.T) {
	ctx := context.Background()
	profiles := newTestProfiles(t)
	_, err := profiles.GetOrCreate(ctx, "42", profile.Seed{FirstName: "Unknown"})
	require.NoError(t, err)

	p := &fakeProvider{reply: `{"name": "Jake", "favorite_color": "red"}`}
	ex, _ := newExtractor(t, p, profiles)

	require.NoError(t, ex.ExtractAndSave(ctx, "42", "My name is Jake and I love red"))

	prof, err := profiles.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Jake", prof.Biography["name"])
	assert.Equal(t, "red", prof.Biography["favorite_color"])
	assert.Equal(t, "Jake", prof.FirstName)
}

func TestExtractAndSaveEmptyFactsIsNoop(t *testing.T) {
	ctx := context.Background()
	profiles := newTestProfiles(t)
	_, err := profiles.GetOrCreate(ctx, "42", profile.Seed{FirstName: "Jake"})
	require.NoError(t, err)

	p := &fakeProvider{reply: `{}`}
	ex, _ := newExtractor(t, p, profiles)
	require.NoError(t, ex.ExtractAndSave(ctx, "42", "Let's play fetch!"))

	prof, err := profiles.Get(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, prof.Biography)
}

func TestExtractAndSaveMalformedOutputLeavesProfileUntouched(t *testing.T) {
	ctx := context.Background()
	profiles := newTestProfiles(t)
	_, err := profiles.GetOrCreate(ctx, "42", profile.Seed{FirstName: "Jake"})
	require.NoError(t, err)

	p := &fakeProvider{reply: "definitely not json"}
	ex, _ := newExtractor(t, p, profiles)
	require.NoError(t, ex.ExtractAndSave(ctx, "42", "hello"))

	prof, err := profiles.Get(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, prof.Biography)
	assert.Equal(t, "Jake", prof.FirstName)
}

func TestExtractEmptyReplyYieldsNoFacts(t *testing.T) {
	p := &fakeProvider{reply: ""}
	ex, _ := newExtractor(t, p, newTestProfiles(t))

	facts, err := ex.Extract(context.Background(), "hello")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestExtractPropagatesProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("model unreachable")}
	ex, _ := newExtractor(t, p, newTestProfiles(t))

	_, err := ex.Extract(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unreachable")
}

func TestDispatchAsyncRunsInBackground(t *testing.T) {
	ctx := context.Background()
	profiles := newTestProfiles(t)
	_, err := profiles.GetOrCreate(ctx, "42", profile.Seed{})
	require.NoError(t, err)

	p := &fakeProvider{reply: `{"hobby": "hiking"}`}
	ex, jm := newExtractor(t, p, profiles)

	ex.DispatchAsync("42", "I love hiking")
	ex.DispatchAsync("42", "I love hiking")
	jm.Wait()

	assert.Eventually(t, func() bool {
		prof, err := profiles.Get(ctx, "42")
		return err == nil && prof.Biography["hobby"] == "hiking"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, p.calls)
}

func TestDetector(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  bool
	}{
		{"yes", "YES", nil, true},
		{"yes with noise", "  Yes, this is a fact.", nil, true},
		{"no", "NO", nil, false},
		{"rambling", "It depends on context.", nil, false},
		{"provider error", "", errors.New("down"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(&fakeProvider{reply: tt.reply, err: tt.err})
			assert.Equal(t, tt.want, d.IsTeachable(context.Background(), "My name is Jake."))
		})
	}
}
