package ingestion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/syllabus/ai/mock"
	"github.com/poiesic/syllabus/document"
	"github.com/poiesic/syllabus/search"
	"github.com/poiesic/syllabus/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func courseText(title string, lessons int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course Title: %s\n", title)
	fmt.Fprintf(&b, "Course Link: https://example.com/%s\n", strings.ReplaceAll(strings.ToLower(title), " ", "-"))
	b.WriteString("Course Instructor: Test Instructor\n\n")
	for n := 0; n < lessons; n++ {
		fmt.Fprintf(&b, "Lesson %d: Topic %d\n", n, n)
		fmt.Fprintf(&b, "Lesson Link: https://example.com/lesson/%d\n", n)
		fmt.Fprintf(&b, "This lesson of %s covers topic number %d. It has two sentences.\n\n", title, n)
	}
	return b.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func setupPipeline(t *testing.T, opts ...Option) (*Pipeline, *search.Index, *mock.MockEmbedder) {
	t.Helper()
	catalog, content, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		catalog.Close()
		content.Close()
		backend.Close()
	})

	embedder := mock.NewMockEmbedder()
	index, err := search.NewIndex(catalog, content, embedder)
	require.NoError(t, err)

	opts = append([]Option{WithPoolSize(2), WithRetry(1, 0)}, opts...)
	pipeline, err := NewPipeline(index, opts...)
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, index, embedder
}

func TestNewPipeline(t *testing.T) {
	catalog, content, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		catalog.Close()
		content.Close()
		backend.Close()
	}()
	index, err := search.NewIndex(catalog, content, mock.NewMockEmbedder())
	require.NoError(t, err)

	t.Run("defaults", func(t *testing.T) {
		p, err := NewPipeline(index)
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, DefaultExtensions, p.extensions)
		assert.Equal(t, 3, p.maxRetries)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewPipeline(nil)
		assert.ErrorIs(t, err, ErrIndexRequired)
	})

	t.Run("with custom processor", func(t *testing.T) {
		proc, err := document.NewProcessor(document.WithChunkSize(200), document.WithChunkOverlap(20))
		require.NoError(t, err)
		p, err := NewPipeline(index, WithProcessor(proc))
		require.NoError(t, err)
		defer p.Release()
		assert.Same(t, proc, p.processor)
	})

	t.Run("nil processor rejected", func(t *testing.T) {
		_, err := NewPipeline(index, WithProcessor(nil))
		assert.Error(t, err)
	})

	t.Run("invalid retry", func(t *testing.T) {
		_, err := NewPipeline(index, WithRetry(0, time.Second))
		assert.Error(t, err)
	})

	t.Run("extensions are normalized", func(t *testing.T) {
		p, err := NewPipeline(index, WithExtensions("MD", ".txt"))
		require.NoError(t, err)
		defer p.Release()
		assert.True(t, p.Accepts("notes.md"))
		assert.True(t, p.Accepts("COURSE.TXT"))
		assert.False(t, p.Accepts("image.png"))
	})
}

func TestIngestFolder(t *testing.T) {
	ctx := context.Background()

	t.Run("loads every course", func(t *testing.T) {
		p, index, _ := setupPipeline(t)
		dir := t.TempDir()
		writeFile(t, dir, "course1.txt", courseText("Alpha Course", 3))
		writeFile(t, dir, "course2.txt", courseText("Beta Course", 2))
		writeFile(t, dir, "notes.pdf", "ignored")
		writeFile(t, dir, ".hidden.txt", courseText("Hidden Course", 1))

		report, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha Course", "Beta Course"}, report.Loaded)
		assert.Empty(t, report.Skipped)
		assert.Empty(t, report.Failed)
		assert.Equal(t, 5, report.Chunks)

		courses, chunks, err := index.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, courses)
		assert.Equal(t, 5, chunks)
	})

	t.Run("re-ingest is idempotent", func(t *testing.T) {
		p, index, _ := setupPipeline(t)
		dir := t.TempDir()
		writeFile(t, dir, "course1.txt", courseText("Alpha Course", 3))

		_, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)

		report, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)
		assert.Empty(t, report.Loaded)
		assert.Equal(t, []string{"Alpha Course"}, report.Skipped)

		courses, chunks, err := index.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, courses)
		assert.Equal(t, 3, chunks)
	})

	t.Run("duplicate titles in one batch load once", func(t *testing.T) {
		p, index, _ := setupPipeline(t)
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", courseText("Same Course", 2))
		writeFile(t, dir, "b.txt", courseText("Same Course", 2))

		report, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)
		assert.Len(t, report.Loaded, 1)

		courses, chunks, err := index.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, courses)
		assert.Equal(t, 2, chunks)
	})

	t.Run("unparseable file does not stop the batch", func(t *testing.T) {
		p, index, _ := setupPipeline(t)
		dir := t.TempDir()
		writeFile(t, dir, "good.txt", courseText("Good Course", 2))
		bad := writeFile(t, dir, "bad.txt", "no header here\njust text\n")
		writeFile(t, dir, "empty.txt", "")

		report, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"Good Course"}, report.Loaded)
		require.Len(t, report.Failed, 2)
		assert.Equal(t, bad, report.Failed[0].Path)

		var parseErr *document.ParseError
		assert.True(t, errors.As(report.Failed[0], &parseErr))

		courses, _, err := index.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, courses)
	})

	t.Run("embedding failure leaves course unindexed", func(t *testing.T) {
		p, index, embedder := setupPipeline(t)
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			return nil, errors.New("provider down")
		}
		dir := t.TempDir()
		writeFile(t, dir, "course.txt", courseText("Broken Course", 1))

		report, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)
		require.Len(t, report.Failed, 1)
		assert.ErrorContains(t, report.Failed[0], "provider down")

		titles, err := index.ExistingTitles(ctx)
		require.NoError(t, err)
		assert.Empty(t, titles)
	})

	t.Run("failed file frees its title for the rest of the batch", func(t *testing.T) {
		p, index, embedder := setupPipeline(t, WithPoolSize(1))
		var calls atomic.Int32
		embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
			if calls.Add(1) == 1 {
				return nil, errors.New("provider down")
			}
			vectors := make([][]float32, len(texts))
			for i, text := range texts {
				vectors[i] = mock.Vector(text)
			}
			return vectors, nil
		}
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", courseText("Same", 1))
		writeFile(t, dir, "b.txt", courseText("Same", 2))

		report, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"Same"}, report.Loaded)
		assert.Empty(t, report.Skipped)
		require.Len(t, report.Failed, 1)
		assert.Equal(t, filepath.Join(dir, "a.txt"), report.Failed[0].Path)

		titles, err := index.ExistingTitles(ctx)
		require.NoError(t, err)
		assert.Contains(t, titles, "Same")
	})

	t.Run("clear rebuilds from scratch", func(t *testing.T) {
		p, index, _ := setupPipeline(t)
		dir := t.TempDir()
		path := writeFile(t, dir, "course.txt", courseText("Alpha Course", 3))

		_, err := p.IngestFolder(ctx, dir, false)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte(courseText("Alpha Course", 1)), 0o644))
		report, err := p.IngestFolder(ctx, dir, true)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alpha Course"}, report.Loaded)

		courses, chunks, err := index.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, courses)
		assert.Equal(t, 1, chunks)
	})

	t.Run("missing folder", func(t *testing.T) {
		p, _, _ := setupPipeline(t)
		_, err := p.IngestFolder(ctx, filepath.Join(t.TempDir(), "nope"), false)
		assert.Error(t, err)
	})

	t.Run("file instead of folder", func(t *testing.T) {
		p, _, _ := setupPipeline(t)
		path := writeFile(t, t.TempDir(), "course.txt", courseText("Alpha Course", 1))
		_, err := p.IngestFolder(ctx, path, false)
		assert.ErrorIs(t, err, ErrNotADirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		p, _, _ := setupPipeline(t)
		dir := t.TempDir()
		writeFile(t, dir, "course.txt", courseText("Alpha Course", 1))
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := p.IngestFolder(cctx, dir, false)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestIngestFile(t *testing.T) {
	ctx := context.Background()
	p, index, _ := setupPipeline(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "course.txt", courseText("Alpha Course", 3))

	title, chunks, err := p.IngestFile(ctx, path, false)
	require.NoError(t, err)
	assert.Equal(t, "Alpha Course", title)
	assert.Equal(t, 3, chunks)

	_, _, err = p.IngestFile(ctx, path, false)
	assert.ErrorIs(t, err, ErrAlreadyIndexed)

	require.NoError(t, os.WriteFile(path, []byte(courseText("Alpha Course", 2)), 0o644))
	_, chunks, err = p.IngestFile(ctx, path, true)
	require.NoError(t, err)
	assert.Equal(t, 2, chunks)

	course, err := index.Course(ctx, "Alpha Course")
	require.NoError(t, err)
	assert.Len(t, course.Lessons, 2)

	_, total, err := index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
