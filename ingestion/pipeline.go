package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/document"
	"github.com/poiesic/syllabus/reembed"
	"github.com/poiesic/syllabus/search"
)

// DefaultExtensions are the file extensions treated as course documents.
var DefaultExtensions = []string{".txt"}

// Report summarizes a folder ingest.
type Report struct {
	// Loaded lists titles of newly indexed courses, sorted.
	Loaded []string
	// Skipped lists titles that were already indexed, sorted.
	Skipped []string
	// Failed lists files that could not be parsed or indexed.
	Failed []*FileError
	// Chunks is the number of chunks added.
	Chunks int
}

// Pipeline orchestrates parsing and indexing of course documents.
type Pipeline struct {
	index      *search.Index
	processor  *document.Processor
	pool       *ants.Pool
	extensions []string
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger

	inflight *titleClaims
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingestion")
		return nil
	}
}

// WithProcessor sets the document processor.
// Default uses document.DefaultChunkSize and document.DefaultChunkOverlap.
func WithProcessor(processor *document.Processor) Option {
	return func(p *Pipeline) error {
		if processor == nil {
			return errors.New("processor cannot be nil")
		}
		p.processor = processor
		return nil
	}
}

// WithRetry sets how often indexing a course is attempted and the base
// backoff delay. Default is 3 attempts starting at one second.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts < 1 {
			return reembed.ErrInvalidMaxAttempts
		}
		p.maxRetries = maxAttempts
		p.retryDelay = baseDelay
		return nil
	}
}

// WithExtensions sets which file extensions are ingested.
func WithExtensions(extensions ...string) Option {
	return func(p *Pipeline) error {
		if len(extensions) == 0 {
			return errors.New("at least one extension required")
		}
		p.extensions = make([]string, len(extensions))
		for i, ext := range extensions {
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			p.extensions[i] = strings.ToLower(ext)
		}
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(index *search.Index, opts ...Option) (*Pipeline, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	processor, err := document.NewProcessor()
	if err != nil {
		pool.Release()
		return nil, err
	}

	p := &Pipeline{
		index:      index,
		processor:  processor,
		pool:       pool,
		extensions: DefaultExtensions,
		maxRetries: 3,
		retryDelay: time.Second,
		logger:     slog.Default().With("component", "ingestion"),
		inflight:   newTitleClaims(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestFolder indexes every course document in dir. Courses whose title is
// already indexed are skipped. With clear set, both collections are dropped
// first and every course is rebuilt.
func (p *Pipeline) IngestFolder(ctx context.Context, dir string, clear bool) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	if clear {
		if err := p.index.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clearing index: %w", err)
		}
	}

	paths, err := p.listFiles(dir)
	if err != nil {
		return nil, err
	}

	existing, err := p.index.ExistingTitles(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Info("ingesting folder", "dir", dir, "files", len(paths), "indexed", len(existing))

	report := &Report{}
	batch := newTitleClaims()
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			title, chunks, err := p.ingest(ctx, path, existing, false, batch)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrAlreadyIndexed):
				report.Skipped = append(report.Skipped, title)
			case err != nil:
				report.Failed = append(report.Failed, &FileError{Path: path, Err: err})
			default:
				report.Loaded = append(report.Loaded, title)
				report.Chunks += chunks
			}
		}
		if err := p.pool.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			report.Failed = append(report.Failed, &FileError{Path: path, Err: err})
			mu.Unlock()
		}
	}
	wg.Wait()

	slices.Sort(report.Loaded)
	slices.Sort(report.Skipped)
	slices.SortFunc(report.Failed, func(a, b *FileError) int {
		return strings.Compare(a.Path, b.Path)
	})

	for _, f := range report.Failed {
		p.logger.Warn("skipped file", "path", f.Path, "err", f.Err)
	}
	p.logger.Info("ingest complete",
		"loaded", len(report.Loaded), "skipped", len(report.Skipped),
		"failed", len(report.Failed), "chunks", report.Chunks)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// IngestFile indexes one course document and returns its title and chunk
// count. An already indexed title returns ErrAlreadyIndexed unless replace
// is set, in which case the old course is removed first.
func (p *Pipeline) IngestFile(ctx context.Context, path string, replace bool) (string, int, error) {
	existing, err := p.index.ExistingTitles(ctx)
	if err != nil {
		return "", 0, err
	}
	return p.ingest(ctx, path, existing, replace, nil)
}

// Accepts reports whether path has an ingested extension.
func (p *Pipeline) Accepts(path string) bool {
	return slices.Contains(p.extensions, strings.ToLower(filepath.Ext(path)))
}

// Release releases resources including worker pools.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// ingest indexes one file. A non-nil batch keeps titles claimed for the
// whole folder run so a later duplicate cannot overwrite an earlier one.
func (p *Pipeline) ingest(ctx context.Context, path string, existing map[string]struct{}, replace bool, batch *titleClaims) (title string, chunkCount int, err error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	course, chunks, err := p.processor.Parse(path)
	if err != nil {
		return "", 0, err
	}

	_, indexed := existing[course.Title]
	if indexed && !replace {
		return course.Title, 0, ErrAlreadyIndexed
	}
	if batch != nil {
		if !batch.claim(course.Title) {
			return course.Title, 0, ErrAlreadyIndexed
		}
		// A failed file gives the title back so a later file in the same
		// batch can still load it.
		defer func() {
			if err != nil && !errors.Is(err, ErrAlreadyIndexed) {
				batch.release(course.Title)
			}
		}()
	}
	if !p.inflight.claim(course.Title) {
		return course.Title, 0, ErrAlreadyIndexed
	}
	defer p.inflight.release(course.Title)

	if indexed {
		if err := p.index.RemoveCourse(ctx, course.Title); err != nil {
			return course.Title, 0, err
		}
	}

	// Content goes in before the catalog entry: a course only counts as
	// indexed once its catalog entry exists.
	err = reembed.RetryWithBackoff(ctx, func() error {
		if err := p.index.AddContent(ctx, chunks); err != nil {
			return retryable(err)
		}
		return retryable(p.index.AddCourseCatalog(ctx, course))
	}, p.maxRetries, p.retryDelay)
	if err != nil {
		return course.Title, 0, err
	}

	p.logger.Debug("indexed course", "title", course.Title, "lessons", len(course.Lessons), "chunks", len(chunks))
	return course.Title, len(chunks), nil
}

// retryable marks validation failures as permanent. Embedding and storage
// errors are retried.
func retryable(err error) error {
	if errors.Is(err, core.ErrInvalidCourse) || errors.Is(err, core.ErrInvalidChunk) {
		return reembed.Permanent(err)
	}
	return err
}

// titleClaims reserves course titles for files being indexed.
type titleClaims struct {
	mu     sync.Mutex
	titles map[string]struct{}
}

func newTitleClaims() *titleClaims {
	return &titleClaims{titles: make(map[string]struct{})}
}

func (c *titleClaims) claim(title string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.titles[title]; taken {
		return false
	}
	c.titles[title] = struct{}{}
	return true
}

func (c *titleClaims) release(title string) {
	c.mu.Lock()
	delete(c.titles, title)
	c.mu.Unlock()
}

func (p *Pipeline) listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if p.Accepts(path) {
			paths = append(paths, path)
		}
	}
	return paths, nil
}
