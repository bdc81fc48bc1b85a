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


package storage

import (
	"context"

	"github.com/poiesic/syllabus/core"
)

// Repository provides operations shared by both collections.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Count returns the number of entries in the collection.
	Count(ctx context.Context) (int, error)

	// Clear removes every entry of the collection.
	Clear(ctx context.Context) error

	// Close releases resources held by the repository.
	Close() error
}

// CatalogRepository stores one embedded entry per course, keyed by title.
type CatalogRepository interface {
	Repository

	// UpsertCourses stores catalog entries. Storing an entry whose title
	// already exists replaces it, so repeated calls are idempotent.
	UpsertCourses(ctx context.Context, entries ...*core.CatalogEntry) error

	// GetCourse returns the course with the exact title.
	// Returns ErrNotFound if it doesn't exist.
	GetCourse(ctx context.Context, title string) (*core.Course, error)

	// DeleteCourse removes the entry with the exact title.
	// Deleting a missing title is not an error.
	DeleteCourse(ctx context.Context, title string) error

	// ListCourses returns every stored course ordered by title.
	ListCourses(ctx context.Context) ([]*core.Course, error)

	// Nearest returns up to limit courses closest to vector, closest first.
	Nearest(ctx context.Context, vector []float32, limit int) ([]core.ScoredCourse, error)

	// ForEach calls fn for every entry. Iteration stops at the first error.
	ForEach(ctx context.Context, fn func(*core.CatalogEntry) error) error
}

// ContentFilter restricts a content search to exact metadata values.
// A zero filter matches every chunk.
type ContentFilter struct {
	CourseTitle  string // empty for any course
	LessonNumber *int   // nil for any lesson
}

// Empty reports whether the filter matches every chunk.
func (f ContentFilter) Empty() bool {
	return f.CourseTitle == "" && f.LessonNumber == nil
}

// Matches reports whether chunk satisfies the filter.
func (f ContentFilter) Matches(chunk *core.Chunk) bool {
	if f.CourseTitle != "" && chunk.CourseTitle != f.CourseTitle {
		return false
	}
	if f.LessonNumber != nil && chunk.LessonNumber != *f.LessonNumber {
		return false
	}
	return true
}

// ContentRepository stores one embedded entry per chunk.
type ContentRepository interface {
	Repository

	// UpsertChunks stores content entries keyed by chunk ID.
	// Repeated calls with the same chunks are idempotent.
	UpsertChunks(ctx context.Context, entries ...*core.ContentEntry) error

	// DeleteCourse removes every chunk of a course and returns how many were removed.
	DeleteCourse(ctx context.Context, title string) (int, error)

	// Search returns up to limit chunks matching filter, closest to vector first.
	Search(ctx context.Context, vector []float32, filter ContentFilter, limit int) ([]core.ScoredChunk, error)

	// ForEach calls fn for every entry. Iteration stops at the first error.
	ForEach(ctx context.Context, fn func(*core.ContentEntry) error) error
}

// MetadataRepository stores named values describing the index.
type MetadataRepository interface {
	// Put stores value under name.
	Put(ctx context.Context, name, value string) error

	// Get returns the value stored under name.
	// Returns ErrNotFound if nothing is stored.
	Get(ctx context.Context, name string) (string, error)
}

// MetaEmbeddingModel names the embedding model that produced stored vectors.
const MetaEmbeddingModel = "embedding_model"
