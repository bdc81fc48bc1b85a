package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contentEntry(course string, lesson, index int, vector ...float32) *core.ContentEntry {
	return &core.ContentEntry{
		Chunk: core.Chunk{
			Text:         fmt.Sprintf("%s lesson %d chunk %d", course, lesson, index),
			CourseTitle:  course,
			LessonNumber: lesson,
			Index:        index,
		},
		Vector: vector,
	}
}

func seedContent(t *testing.T, repo storage.ContentRepository) {
	t.Helper()
	err := repo.UpsertChunks(context.Background(),
		contentEntry("Demo", 1, 0, 1, 0),
		contentEntry("Demo", 1, 1, 0.8, 0.2),
		contentEntry("Demo", 2, 2, 0, 1),
		contentEntry("Other", 1, 0, 0.9, 0.1),
	)
	require.NoError(t, err)
}

func TestContentSearch(t *testing.T) {
	catalog, content, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { catalog.Close(); content.Close(); backend.Close() }()

	seedContent(t, content)
	ctx := context.Background()
	lesson1 := 1

	tests := []struct {
		name   string
		filter storage.ContentFilter
		limit  int
		want   []string
	}{
		{
			name:  "no filter ranks by distance",
			limit: 5,
			want:  []string{"Demo/0", "Other/0", "Demo/1", "Demo/2"},
		},
		{
			name:  "limit",
			limit: 2,
			want:  []string{"Demo/0", "Other/0"},
		},
		{
			name:   "course filter",
			filter: storage.ContentFilter{CourseTitle: "Demo"},
			limit:  5,
			want:   []string{"Demo/0", "Demo/1", "Demo/2"},
		},
		{
			name:   "course and lesson filter",
			filter: storage.ContentFilter{CourseTitle: "Demo", LessonNumber: &lesson1},
			limit:  5,
			want:   []string{"Demo/0", "Demo/1"},
		},
		{
			name:   "lesson filter alone",
			filter: storage.ContentFilter{LessonNumber: &lesson1},
			limit:  5,
			want:   []string{"Demo/0", "Other/0", "Demo/1"},
		},
		{
			name:   "filter matching nothing",
			filter: storage.ContentFilter{CourseTitle: "Missing"},
			limit:  5,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := content.Search(ctx, []float32{1, 0}, tt.filter, tt.limit)
			require.NoError(t, err)

			var got []string
			for _, r := range results {
				got = append(got, fmt.Sprintf("%s/%d", r.Chunk.CourseTitle, r.Chunk.Index))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentUpsertIdempotent(t *testing.T) {
	catalog, content, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { catalog.Close(); content.Close(); backend.Close() }()

	seedContent(t, content)
	seedContent(t, content)

	count, err := content.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestContentUpsertRejectsInvalid(t *testing.T) {
	catalog, content, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { catalog.Close(); content.Close(); backend.Close() }()

	ctx := context.Background()
	err = content.UpsertChunks(ctx, contentEntry("Demo", 1, 0))
	assert.ErrorIs(t, err, storage.ErrMissingVector)

	bad := contentEntry("Demo", 1, 0, 1)
	bad.Chunk.Text = ""
	assert.ErrorIs(t, content.UpsertChunks(ctx, bad), core.ErrEmptyContent)
}

func TestContentForEachAndClear(t *testing.T) {
	catalog, content, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { catalog.Close(); content.Close(); backend.Close() }()

	seedContent(t, content)
	require.NoError(t, catalog.UpsertCourses(context.Background(), catalogEntry("Demo", 1, 0)))
	ctx := context.Background()

	seen := 0
	require.NoError(t, content.ForEach(ctx, func(entry *core.ContentEntry) error {
		seen++
		return nil
	}))
	assert.Equal(t, 4, seen)

	require.NoError(t, content.Clear(ctx))
	count, err := content.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Clearing content leaves the catalog alone.
	count, err = catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDeleteCourse(t *testing.T) {
	catalog, content, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { catalog.Close(); content.Close(); backend.Close() }()

	ctx := context.Background()
	seedContent(t, content)
	require.NoError(t, catalog.UpsertCourses(ctx, catalogEntry("Demo", 1, 0), catalogEntry("Other", 0, 1)))

	removed, err := content.DeleteCourse(ctx, "Demo")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	require.NoError(t, catalog.DeleteCourse(ctx, "Demo"))
	require.NoError(t, catalog.DeleteCourse(ctx, "Never stored"))

	count, _ := content.Count(ctx)
	assert.Equal(t, 1, count)
	titles := []string{}
	courses, err := catalog.ListCourses(ctx)
	require.NoError(t, err)
	for _, c := range courses {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{"Other"}, titles)

	removed, err = content.DeleteCourse(ctx, "Demo")
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestContentLargeUpsert(t *testing.T) {
	catalog, content, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer func() { catalog.Close(); content.Close(); backend.Close() }()

	entries := make([]*core.ContentEntry, 2000)
	for i := range entries {
		entries[i] = contentEntry("Big", i/100, i, float32(i), 1)
	}
	require.NoError(t, content.UpsertChunks(context.Background(), entries...))

	count, err := content.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000, count)
}

func TestMetadataRepository(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	meta := NewMetadataRepository(backend)
	ctx := context.Background()

	_, err = meta.Get(ctx, storage.MetaEmbeddingModel)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, meta.Put(ctx, storage.MetaEmbeddingModel, "embeddinggemma"))
	value, err := meta.Get(ctx, storage.MetaEmbeddingModel)
	require.NoError(t, err)
	assert.Equal(t, "embeddinggemma", value)
}
