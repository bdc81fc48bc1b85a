package badger

import (
	"context"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/storage"
)

// ContentRepository implements storage.ContentRepository for BadgerDB.
type ContentRepository struct {
	backend *Backend
}

var _ storage.ContentRepository = (*ContentRepository)(nil)

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(backend *Backend) (*ContentRepository, error) {
	return &ContentRepository{
		backend: backend,
	}, nil
}

// Close releases resources. ContentRepository has no resources to release.
func (r *ContentRepository) Close() error {
	return nil
}

// UpsertChunks stores content entries keyed by chunk ID.
func (r *ContentRepository) UpsertChunks(ctx context.Context, entries ...*core.ContentEntry) error {
	for _, entry := range entries {
		if err := core.ValidateChunk(&entry.Chunk); err != nil {
			return err
		}
		if len(entry.Vector) == 0 {
			return fmt.Errorf("%w: chunk %d of %q", storage.ErrMissingVector, entry.Chunk.Index, entry.Chunk.CourseTitle)
		}
	}

	return r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := makeContentKey(entry.Chunk.ID())
			if err := wb.Set(key, storage.MarshalContentEntry(entry)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCourse removes every chunk belonging to title.
func (r *ContentRepository) DeleteCourse(ctx context.Context, title string) (int, error) {
	var keys [][]byte
	err := r.ForEach(ctx, func(entry *core.ContentEntry) error {
		if entry.Chunk.CourseTitle == title {
			keys = append(keys, makeContentKey(entry.Chunk.ID()))
		}
		return nil
	})
	if err != nil || len(keys) == 0 {
		return 0, err
	}

	err = r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for _, key := range keys {
			if err := wb.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Search scans every chunk matching filter and returns the closest ones.
// Equal distances keep course and chunk order.
func (r *ContentRepository) Search(ctx context.Context, vector []float32, filter storage.ContentFilter, limit int) ([]core.ScoredChunk, error) {
	if limit <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []core.ScoredChunk
	err := r.ForEach(ctx, func(entry *core.ContentEntry) error {
		if !filter.Matches(&entry.Chunk) {
			return nil
		}
		results = append(results, core.ScoredChunk{
			Chunk:    entry.Chunk,
			Distance: cosineDistance(vector, entry.Vector),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b core.ScoredChunk) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		case a.Chunk.CourseTitle != b.Chunk.CourseTitle:
			if a.Chunk.CourseTitle < b.Chunk.CourseTitle {
				return -1
			}
			return 1
		default:
			return a.Chunk.Index - b.Chunk.Index
		}
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ForEach calls fn for every content entry.
func (r *ContentRepository) ForEach(ctx context.Context, fn func(*core.ContentEntry) error) error {
	return r.backend.scan(ctx, collectionPrefix(contentPrefix), func(val []byte) error {
		entry, err := storage.UnmarshalContentEntry(val)
		if err != nil {
			return err
		}
		return fn(entry)
	})
}

// Count returns the number of content entries.
func (r *ContentRepository) Count(ctx context.Context) (int, error) {
	return r.backend.count(ctx, collectionPrefix(contentPrefix))
}

// Clear removes every content entry.
func (r *ContentRepository) Clear(ctx context.Context) error {
	return r.backend.dropPrefix(collectionPrefix(contentPrefix))
}
