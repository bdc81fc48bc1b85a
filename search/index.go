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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/storage"
)

const (
	// DefaultMaxResults is the number of chunks returned by a search.
	DefaultMaxResults = 5

	// DefaultMaxCourseDistance rejects course matches whose embedding is
	// orthogonal to or pointing away from the query.
	DefaultMaxCourseDistance float32 = 1.0

	// embedBatchSize bounds the texts sent in one embedding request.
	embedBatchSize = 32
)

// Index is the course catalog plus chunk content, searchable by embedding.
// It is safe for concurrent use.
type Index struct {
	catalog           storage.CatalogRepository
	content           storage.ContentRepository
	embedder          ai.Embedder
	maxResults        int
	maxCourseDistance float32
	logger            *slog.Logger
}

// Option configures an Index.
type Option func(*Index) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Index) error {
		if logger == nil {
			logger = slog.Default()
		}
		i.logger = logger.With("component", "index")
		return nil
	}
}

// WithMaxResults sets how many chunks a search returns by default.
func WithMaxResults(n int) Option {
	return func(i *Index) error {
		if n <= 0 {
			return fmt.Errorf("%w: max results must be positive, got %d", ErrInvalidOption, n)
		}
		i.maxResults = n
		return nil
	}
}

// WithMaxCourseDistance sets the distance at or beyond which a course name
// is not resolved. Distances range from 0 (identical) to 2 (opposite).
func WithMaxCourseDistance(d float32) Option {
	return func(i *Index) error {
		if d <= 0 || d > 2 {
			return fmt.Errorf("%w: max course distance must be in (0, 2], got %v", ErrInvalidOption, d)
		}
		i.maxCourseDistance = d
		return nil
	}
}

// NewIndex creates an index over the given repositories.
func NewIndex(
	catalog storage.CatalogRepository,
	content storage.ContentRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Index, error) {
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if content == nil {
		return nil, ErrContentRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	i := &Index{
		catalog:           catalog,
		content:           content,
		embedder:          embedder,
		maxResults:        DefaultMaxResults,
		maxCourseDistance: DefaultMaxCourseDistance,
		logger:            slog.Default().With("component", "index"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	return i, nil
}

// AddCourseCatalog embeds the course title and instructor and stores the
// course in the catalog. Adding the same course again replaces the entry.
func (i *Index) AddCourseCatalog(ctx context.Context, course *core.Course) error {
	if err := core.ValidateCourse(course); err != nil {
		return err
	}

	vector, err := i.embedder.EmbedText(ctx, course.CatalogText())
	if err != nil {
		return fmt.Errorf("embedding catalog entry for %q: %w", course.Title, err)
	}

	if err := i.catalog.UpsertCourses(ctx, &core.CatalogEntry{Course: *course, Vector: vector}); err != nil {
		return err
	}
	i.logger.Debug("added course to catalog", "title", course.Title, "lessons", len(course.Lessons))
	return nil
}

// AddContent embeds and stores chunks. Chunks are keyed by course and chunk
// index, so adding them again replaces the existing entries.
func (i *Index) AddContent(ctx context.Context, chunks []core.Chunk) error {
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for j := range batch {
			texts[j] = batch[j].Text
		}

		vectors, err := i.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks %d-%d: %w", start, end-1, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding chunks %d-%d: got %d vectors for %d texts", start, end-1, len(vectors), len(batch))
		}

		entries := make([]*core.ContentEntry, len(batch))
		for j := range batch {
			entries[j] = &core.ContentEntry{Chunk: batch[j], Vector: vectors[j]}
		}
		if err := i.content.UpsertChunks(ctx, entries...); err != nil {
			return err
		}
	}

	i.logger.Debug("added content", "chunks", len(chunks))
	return nil
}

// ResolveCourseName maps a partial or misspelled course name to the closest
// catalog title. An exact title (ignoring case) always wins. Returns false
// when the catalog is empty or the closest title is at least the configured
// maximum distance away.
func (i *Index) ResolveCourseName(ctx context.Context, partial string) (string, bool, error) {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return "", false, nil
	}

	courses, err := i.catalog.ListCourses(ctx)
	if err != nil {
		return "", false, err
	}
	if len(courses) == 0 {
		return "", false, nil
	}
	for _, c := range courses {
		if strings.EqualFold(c.Title, partial) {
			return c.Title, true, nil
		}
	}

	vector, err := i.embedder.EmbedText(ctx, partial)
	if err != nil {
		return "", false, fmt.Errorf("embedding course name: %w", err)
	}

	nearest, err := i.catalog.Nearest(ctx, vector, 1)
	if err != nil {
		return "", false, err
	}
	if len(nearest) == 0 || nearest[0].Distance >= i.maxCourseDistance {
		i.logger.Debug("course name unresolved", "partial", partial)
		return "", false, nil
	}

	i.logger.Debug("resolved course name", "partial", partial,
		"title", nearest[0].Course.Title, "distance", nearest[0].Distance)
	return nearest[0].Course.Title, true, nil
}

// Search finds the chunks closest to the query text.
func (i *Index) Search(ctx context.Context, q Query) (*Outcome, error) {
	return i.SearchWithMonitor(ctx, q, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (i *Index) SearchWithMonitor(ctx context.Context, q Query, monitor SearchMonitor) (*Outcome, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, ErrEmptyQuery
	}
	limit := q.Limit
	if limit <= 0 {
		limit = i.maxResults
	}

	monitor.Start(q)
	outcome := &Outcome{CourseFilter: q.CourseName, LessonFilter: q.Lesson}

	// 1. Nothing indexed yet
	count, err := i.content.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		outcome.Kind = OutcomeEmptyCollection
		monitor.Finish(outcome)
		return outcome, nil
	}

	// 2. Resolve the course filter
	filter := storage.ContentFilter{LessonNumber: q.Lesson}
	if q.CourseName != "" {
		title, ok, err := i.ResolveCourseName(ctx, q.CourseName)
		if err != nil {
			return nil, err
		}
		monitor.CourseResolved(q.CourseName, title, ok)
		if !ok {
			outcome.Kind = OutcomeFilterNoMatch
			monitor.Finish(outcome)
			return outcome, nil
		}
		outcome.ResolvedCourse = title
		filter.CourseTitle = title
	}

	// 3. Rank content
	vector, err := i.embedder.EmbedText(ctx, q.Text)
	if err != nil {
		i.logger.Error("error generating embedding for query", "err", err)
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	hits, err := i.content.Search(ctx, vector, filter, limit)
	if err != nil {
		i.logger.Error("error searching content", "err", err)
		return nil, err
	}
	monitor.AfterContentSearch(hits)

	// 4. Classify
	switch {
	case len(hits) > 0:
		outcome.Kind = OutcomeHits
		outcome.Hits = hits
	case q.HasFilter():
		outcome.Kind = OutcomeFilterNoMatch
	default:
		outcome.Kind = OutcomeNoMatch
	}

	i.logger.Debug("search complete", "kind", outcome.Kind, "hits", len(hits))
	monitor.Finish(outcome)
	return outcome, nil
}

// ExistingTitles returns the set of indexed course titles.
func (i *Index) ExistingTitles(ctx context.Context) (map[string]struct{}, error) {
	courses, err := i.catalog.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		titles[c.Title] = struct{}{}
	}
	return titles, nil
}

// Course returns the catalog entry with the exact title.
func (i *Index) Course(ctx context.Context, title string) (*core.Course, error) {
	return i.catalog.GetCourse(ctx, title)
}

// Courses returns every indexed course ordered by title.
func (i *Index) Courses(ctx context.Context) ([]*core.Course, error) {
	return i.catalog.ListCourses(ctx)
}

// Stats returns the number of courses and chunks in the index.
func (i *Index) Stats(ctx context.Context) (courses, chunks int, err error) {
	if courses, err = i.catalog.Count(ctx); err != nil {
		return 0, 0, err
	}
	if chunks, err = i.content.Count(ctx); err != nil {
		return 0, 0, err
	}
	return courses, chunks, nil
}

// RemoveCourse deletes a course and all of its chunks.
func (i *Index) RemoveCourse(ctx context.Context, title string) error {
	removed, err := i.content.DeleteCourse(ctx, title)
	if err != nil {
		return err
	}
	if err := i.catalog.DeleteCourse(ctx, title); err != nil {
		return err
	}
	i.logger.Debug("removed course", "title", title, "chunks", removed)
	return nil
}

// Clear drops both collections.
func (i *Index) Clear(ctx context.Context) error {
	if err := i.catalog.Clear(ctx); err != nil {
		return err
	}
	if err := i.content.Clear(ctx); err != nil {
		return err
	}
	i.logger.Info("cleared index")
	return nil
}
