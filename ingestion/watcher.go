package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must be quiet before it is re-ingested.
const DefaultDebounce = 500 * time.Millisecond

// IngestEvent reports the result of one watched re-ingest.
type IngestEvent struct {
	Path   string
	Title  string
	Chunks int
	Err    error
}

// Watcher re-ingests course files in a folder as they are created or
// written. Editors often write a file several times in a row, so events are
// debounced per path.
type Watcher struct {
	pipeline *Pipeline
	dir      string
	debounce time.Duration
	onIngest func(IngestEvent)
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]time.Time
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce sets the quiet period before a changed file is re-ingested.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d <= 0 {
			return errors.New("debounce must be positive")
		}
		w.debounce = d
		return nil
	}
}

// WithIngestCallback registers fn to be called after every re-ingest.
func WithIngestCallback(fn func(IngestEvent)) WatcherOption {
	return func(w *Watcher) error {
		w.onIngest = fn
		return nil
	}
}

// WithWatcherLogger sets a custom logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger.With("component", "watcher")
		return nil
	}
}

// NewWatcher creates a watcher for dir that feeds pipeline.
func NewWatcher(pipeline *Pipeline, dir string, opts ...WatcherOption) (*Watcher, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline required")
	}
	w := &Watcher{
		pipeline: pipeline,
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   slog.Default().With("component", "watcher"),
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Run watches the folder until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching folder", "dir", w.dir)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleFsEvent(event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		case now := <-ticker.C:
			for _, path := range w.due(now) {
				w.ingest(ctx, path)
			}
		}
	}
}

// handleFsEvent queues a path for re-ingest when the event is relevant.
func (w *Watcher) handleFsEvent(event fsnotify.Event) bool {
	if !w.relevant(event) {
		return false
	}
	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
	return true
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return w.pipeline.Accepts(event.Name)
}

// due removes and returns the paths that have been quiet for the debounce
// period.
func (w *Watcher) due(now time.Time) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var paths []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			paths = append(paths, path)
			delete(w.pending, path)
		}
	}
	return paths
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	title, chunks, err := w.pipeline.IngestFile(ctx, path, true)
	if err != nil {
		w.logger.Warn("re-ingest failed", "path", path, "err", err)
	} else {
		w.logger.Info("re-ingested course", "path", path, "title", title, "chunks", chunks)
	}
	if w.onIngest != nil {
		w.onIngest(IngestEvent{Path: path, Title: title, Chunks: chunks, Err: err})
	}
}
