// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of entries to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of entries)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Result counts the entries that were re-embedded.
type Result struct {
	Courses int
	Chunks  int
}

// Reembedder re-embeds the course catalog and the course content, for
// example after switching embedding models.
type Reembedder struct {
	catalog   storage.CatalogRepository
	content   storage.ContentRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(catalog storage.CatalogRepository, content storage.ContentRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		catalog:   catalog,
		content:   content,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(catalog, content, embedder, config.MaxRetries, config.RetryDelay),
	}
}

// Run re-embeds every catalog entry, then every content entry.
// Progress is reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) (*Result, error) {
	courses, err := r.catalog.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}
	chunks, err := r.content.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	if courses == 0 && chunks == 0 {
		fmt.Fprintf(r.progress, "Nothing to reembed (0 courses, 0 chunks)\n")
		return &Result{}, nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d courses and %d chunks (batch size: %d)\n",
		courses, chunks, r.config.BatchSize)

	start := time.Now()
	result := &Result{}

	tracker := NewProgressTracker(r.progress, "catalog", courses, r.config.ReportInterval)
	tracker.Start()
	err = NewCatalogIterator(r.catalog, r.config.BatchSize).ForEach(ctx, func(batch []*core.CatalogEntry) error {
		if err := r.processor.ProcessCatalog(ctx, batch); err != nil {
			return fmt.Errorf("failed to process catalog batch: %w", err)
		}
		result.Courses += len(batch)
		tracker.Update(result.Courses)
		return nil
	})
	if err != nil {
		return result, err
	}
	tracker.Finish()

	tracker = NewProgressTracker(r.progress, "content", chunks, r.config.ReportInterval)
	tracker.Start()
	err = NewContentIterator(r.content, r.config.BatchSize).ForEach(ctx, func(batch []*core.ContentEntry) error {
		if err := r.processor.ProcessContent(ctx, batch); err != nil {
			return fmt.Errorf("failed to process content batch: %w", err)
		}
		result.Chunks += len(batch)
		tracker.Update(result.Chunks)
		return nil
	})
	if err != nil {
		return result, err
	}
	tracker.Finish()

	elapsed := time.Since(start)
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d courses and %d chunks in %v\n",
		result.Courses, result.Chunks, elapsed.Round(time.Millisecond))

	return result, nil
}
