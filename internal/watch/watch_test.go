package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldIgnoreEvent(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/docs/guide.md", false},
		{"/docs/.guide.md.1234.tmp", true},
		{"/docs/guide.md~", true},
		{"/docs/.guide.md.swp", true},
		{"/docs/guide.swx", true},
		{"/docs/#guide.md#", true},
		{"/docs/Thumbs.db", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldIgnoreEvent(tt.path))
		})
	}
}

func TestWatcher_InitialAndChangeRuns(t *testing.T) {
	root := t.TempDir()
	reasons := make(chan string, 16)

	w := New(Options{Root: root, Debounce: 20 * time.Millisecond}, func(_ context.Context, reason string) {
		reasons <- reason
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case r := <-reasons:
		assert.Equal(t, "initial", r)
	case <-time.After(5 * time.Second):
		t.Fatal("initial run did not happen")
	}

	// Give the watcher a moment to be registered before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.md"), []byte("# A\n"), 0o600))

	select {
	case r := <-reasons:
		assert.Equal(t, "change", r)
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a run")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_Resync(t *testing.T) {
	root := t.TempDir()
	var resyncs atomic.Int32

	w := New(Options{Root: root, ResyncInterval: 50 * time.Millisecond}, func(_ context.Context, reason string) {
		if reason == "resync" {
			resyncs.Add(1)
		}
	})

	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return resyncs.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := New(Options{Root: filepath.Join(t.TempDir(), "missing")}, func(context.Context, string) {})
	require.Error(t, w.Run(t.Context()))
}

func TestScheduler_ScheduleEvery(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	var calls atomic.Int32
	id, err := s.ScheduleEvery("test", 20*time.Millisecond, func() { calls.Add(1) })
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	s.Start()
	require.Eventually(t, func() bool { return calls.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}
