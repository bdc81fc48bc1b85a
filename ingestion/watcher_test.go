package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Relevant(t *testing.T) {
	p, _, _ := setupPipeline(t)
	w, err := NewWatcher(p, t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "create txt", event: fsnotify.Event{Name: "/d/course.txt", Op: fsnotify.Create}, want: true},
		{name: "write txt", event: fsnotify.Event{Name: "/d/course.txt", Op: fsnotify.Write}, want: true},
		{name: "write and chmod", event: fsnotify.Event{Name: "/d/course.txt", Op: fsnotify.Write | fsnotify.Chmod}, want: true},
		{name: "chmod only", event: fsnotify.Event{Name: "/d/course.txt", Op: fsnotify.Chmod}, want: false},
		{name: "remove", event: fsnotify.Event{Name: "/d/course.txt", Op: fsnotify.Remove}, want: false},
		{name: "rename", event: fsnotify.Event{Name: "/d/course.txt", Op: fsnotify.Rename}, want: false},
		{name: "hidden file", event: fsnotify.Event{Name: "/d/.course.txt", Op: fsnotify.Write}, want: false},
		{name: "other extension", event: fsnotify.Event{Name: "/d/course.md", Op: fsnotify.Create}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestWatcher_Debounce(t *testing.T) {
	p, _, _ := setupPipeline(t)
	w, err := NewWatcher(p, t.TempDir(), WithDebounce(time.Second))
	require.NoError(t, err)

	assert.True(t, w.handleFsEvent(fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Write}))
	assert.True(t, w.handleFsEvent(fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Write}))
	assert.False(t, w.handleFsEvent(fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Chmod}))

	assert.Empty(t, w.due(time.Now()))
	assert.Equal(t, []string{"/d/a.txt"}, w.due(time.Now().Add(2*time.Second)))
	assert.Empty(t, w.due(time.Now().Add(3*time.Second)))
}

func TestNewWatcher_Options(t *testing.T) {
	p, _, _ := setupPipeline(t)

	_, err := NewWatcher(nil, t.TempDir())
	assert.Error(t, err)

	_, err = NewWatcher(p, t.TempDir(), WithDebounce(0))
	assert.Error(t, err)

	w, err := NewWatcher(p, t.TempDir(), WithWatcherLogger(nil))
	require.NoError(t, err)
	assert.NotNil(t, w.logger)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestWatcher_Run(t *testing.T) {
	p, index, _ := setupPipeline(t)
	dir := t.TempDir()

	events := make(chan IngestEvent, 4)
	w, err := NewWatcher(p, dir,
		WithDebounce(50*time.Millisecond),
		WithIngestCallback(func(e IngestEvent) { events <- e }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		assert.NoError(t, <-done)
	}()

	// Give the watcher a moment to register the folder.
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "course.txt")
	require.NoError(t, os.WriteFile(path, []byte(courseText("Watched Course", 2)), 0o644))

	select {
	case e := <-events:
		require.NoError(t, e.Err)
		assert.Equal(t, "Watched Course", e.Title)
		assert.Equal(t, 2, e.Chunks)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for re-ingest")
	}

	titles, err := index.ExistingTitles(context.Background())
	require.NoError(t, err)
	assert.Contains(t, titles, "Watched Course")
}
