package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/storage"
)

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	return &CatalogRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CatalogRepository has no resources to release.
func (r *CatalogRepository) Close() error {
	return nil
}

// UpsertCourses stores catalog entries keyed by course title.
func (r *CatalogRepository) UpsertCourses(ctx context.Context, entries ...*core.CatalogEntry) error {
	for _, entry := range entries {
		if err := core.ValidateCourse(&entry.Course); err != nil {
			return err
		}
		if len(entry.Vector) == 0 {
			return fmt.Errorf("%w: course %q", storage.ErrMissingVector, entry.Course.Title)
		}
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, entry := range entries {
			key := makeCatalogKey(entry.Course.ID())
			if err := tx.Set(key, storage.MarshalCatalogEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetCourse retrieves a course by its exact title.
func (r *CatalogRepository) GetCourse(ctx context.Context, title string) (*core.Course, error) {
	var course *core.Course
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCatalogKey(core.IDFromContent(title)))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			entry, err := storage.UnmarshalCatalogEntry(val)
			if err != nil {
				return err
			}
			course = &entry.Course
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course from the catalog.
func (r *CatalogRepository) DeleteCourse(ctx context.Context, title string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCatalogKey(core.IDFromContent(title))); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ListCourses returns every course ordered by title.
func (r *CatalogRepository) ListCourses(ctx context.Context) ([]*core.Course, error) {
	var courses []*core.Course
	err := r.ForEach(ctx, func(entry *core.CatalogEntry) error {
		courses = append(courses, &entry.Course)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(courses, func(a, b *core.Course) int {
		return strings.Compare(a.Title, b.Title)
	})
	return courses, nil
}

// Nearest returns the courses closest to vector.
func (r *CatalogRepository) Nearest(ctx context.Context, vector []float32, limit int) ([]core.ScoredCourse, error) {
	if limit <= 0 || len(vector) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	var results []core.ScoredCourse
	err := r.ForEach(ctx, func(entry *core.CatalogEntry) error {
		results = append(results, core.ScoredCourse{
			Course:   entry.Course,
			Distance: cosineDistance(vector, entry.Vector),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Ties break on title so resolution is stable.
	slices.SortFunc(results, func(a, b core.ScoredCourse) int {
		if a.Distance != b.Distance {
			if a.Distance < b.Distance {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Course.Title, b.Course.Title)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// ForEach calls fn for every catalog entry.
func (r *CatalogRepository) ForEach(ctx context.Context, fn func(*core.CatalogEntry) error) error {
	return r.backend.scan(ctx, collectionPrefix(catalogPrefix), func(val []byte) error {
		entry, err := storage.UnmarshalCatalogEntry(val)
		if err != nil {
			return err
		}
		return fn(entry)
	})
}

// Count returns the number of catalog entries.
func (r *CatalogRepository) Count(ctx context.Context) (int, error) {
	return r.backend.count(ctx, collectionPrefix(catalogPrefix))
}

// Clear removes every catalog entry.
func (r *CatalogRepository) Clear(ctx context.Context) error {
	return r.backend.dropPrefix(collectionPrefix(catalogPrefix))
}
