package jobmgr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAsyncRunsAndCompletes(t *testing.T) {
	var mu sync.Mutex
	var events []string
	jm := NewManager(func(msg string) {
		mu.Lock()
		events = append(events, msg)
		mu.Unlock()
	})

	var ran atomic.Bool
	require.NoError(t, jm.StartAsync("work", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}))
	jm.Wait()

	assert.True(t, ran.Load())
	assert.Empty(t, jm.List())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"running:work", "done:work"}, events)
}

func TestStartAsyncRejectsDuplicateName(t *testing.T) {
	jm := NewManager(nil)
	release := make(chan struct{})

	require.NoError(t, jm.StartAsync("work", func(ctx context.Context) error {
		<-release
		return nil
	}))
	err := jm.StartAsync("work", func(ctx context.Context) error { return nil })
	assert.Error(t, err)

	close(release)
	jm.Wait()
}

func TestStartUniqueAllowsConcurrentKind(t *testing.T) {
	jm := NewManager(nil)
	release := make(chan struct{})
	var running atomic.Int32

	for i := 0; i < 5; i++ {
		name, err := jm.StartUnique("facts", func(ctx context.Context) error {
			running.Add(1)
			<-release
			return nil
		})
		require.NoError(t, err)
		assert.Contains(t, name, "facts:")
	}

	assert.Eventually(t, func() bool { return running.Load() == 5 },
		time.Second, 5*time.Millisecond)
	assert.Len(t, jm.List(), 5)

	close(release)
	jm.Wait()
	assert.Empty(t, jm.List())
}

func TestStopCancelsJob(t *testing.T) {
	jm := NewManager(nil)
	started := make(chan struct{})
	var cancelled atomic.Bool

	require.NoError(t, jm.StartAsync("work", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}))

	<-started
	require.NoError(t, jm.Stop("work"))
	jm.Wait()
	assert.True(t, cancelled.Load())

	assert.Error(t, jm.Stop("work"))
}

func TestReporterSeesErrors(t *testing.T) {
	var mu sync.Mutex
	var events []string
	jm := NewManager(func(msg string) {
		mu.Lock()
		events = append(events, msg)
		mu.Unlock()
	})

	require.NoError(t, jm.StartAsync("work", func(ctx context.Context) error {
		return errors.New("boom")
	}))
	jm.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, events, "error:work:boom")
}

func TestStatus(t *testing.T) {
	jm := NewManager(nil)
	assert.Equal(t, "No jobs are running.", jm.Status())

	release := make(chan struct{})
	require.NoError(t, jm.StartAsync("work", func(ctx context.Context) error {
		<-release
		return nil
	}))
	assert.Contains(t, jm.Status(), "work")

	close(release)
	jm.Wait()
}
