package reembed

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/ai/mock"
	"github.com/poiesic/syllabus/ai/openai"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constantEmbedder maps every text to the same direction, standing in for an
// outdated model whose vectors carry no meaning.
type constantEmbedder struct{}

func (constantEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	v := make([]float32, mock.Dimensions)
	v[0] = 1
	return v, nil
}

func (e constantEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i], _ = e.EmbedText(ctx, text)
	}
	return out, nil
}

// TestIntegration_SwitchEmbeddingModel indexes with one embedder, re-embeds
// with another, and checks search ranks by the new model.
func TestIntegration_SwitchEmbeddingModel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	catalog, content, cleanup := setupTestDB(t)
	defer cleanup()

	oldIndex, err := search.NewIndex(catalog, content, constantEmbedder{})
	require.NoError(t, err)

	course := &core.Course{
		Title:      "Agents in Practice",
		Instructor: "Ada Lovelace",
		Lessons:    []core.Lesson{{Number: 0, Title: "Intro"}, {Number: 1, Title: "Tools"}},
	}
	require.NoError(t, oldIndex.AddContent(ctx, []core.Chunk{
		{Text: "the course introduction covers history and goals", CourseTitle: course.Title, LessonNumber: 0, Index: 0},
		{Text: "tool calling lets the model request function execution", CourseTitle: course.Title, LessonNumber: 1, Index: 1},
	}))
	require.NoError(t, oldIndex.AddCourseCatalog(ctx, course))

	var buf bytes.Buffer
	reembedder := NewReembedder(catalog, content, mock.NewMockEmbedder(), &Config{
		BatchSize:      1,
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     10 * time.Millisecond,
	}, &buf)
	result, err := reembedder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Result{Courses: 1, Chunks: 2}, result)

	newIndex, err := search.NewIndex(catalog, content, mock.NewMockEmbedder())
	require.NoError(t, err)

	outcome, err := newIndex.Search(ctx, search.Query{Text: "tool calling function", Limit: 1})
	require.NoError(t, err)
	require.Equal(t, search.OutcomeHits, outcome.Kind)
	assert.Equal(t, 1, outcome.Hits[0].Chunk.LessonNumber)

	title, ok, err := newIndex.ResolveCourseName(ctx, "agents practice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, course.Title, title)

	output := buf.String()
	assert.Contains(t, output, "Starting reembedding of 1 courses and 2 chunks")
	assert.Contains(t, output, "content: 2/2")
	assert.Contains(t, output, "100.0%")
}

// TestIntegration_IdempotentReembedding checks running twice leaves the same
// entries and counts.
func TestIntegration_IdempotentReembedding(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	catalog, content, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, catalog, content, 3, 4)

	embedder := mock.NewMockEmbedder()
	for i := 0; i < 2; i++ {
		_, err := NewReembedder(catalog, content, embedder, DefaultConfig(), nil).Run(ctx)
		require.NoError(t, err)
	}

	courses, err := catalog.Count(ctx)
	require.NoError(t, err)
	chunks, err := content.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, courses)
	assert.Equal(t, 12, chunks)

	require.NoError(t, content.ForEach(ctx, func(e *core.ContentEntry) error {
		assert.InDeltaSlice(t, mock.Vector(e.Chunk.Text), e.Vector, 1e-5)
		return nil
	}))
}

// TestIntegration_WithRealEmbedder tests with a real OpenAI-compatible embedder
// This test requires a running embedding service and is skipped by default.
func TestIntegration_WithRealEmbedder(t *testing.T) {
	t.Skip("Requires running embedding service - enable manually for testing")

	ctx := context.Background()
	catalog, content, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, catalog, content, 1, 3)

	aiConfig := ai.NewConfig(
		ai.WithHost("http://localhost:11434/v1"),
		ai.WithEmbeddingModel("embeddinggemma"),
	)
	embedder, err := openai.NewEmbedder(aiConfig)
	require.NoError(t, err)

	_, err = NewReembedder(catalog, content, embedder, DefaultConfig(), nil).Run(ctx)
	require.NoError(t, err)

	require.NoError(t, content.ForEach(ctx, func(e *core.ContentEntry) error {
		// Real embeddings should have a consistent dimension
		assert.Greater(t, len(e.Vector), 3)
		return nil
	}))
}
