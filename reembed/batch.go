package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/storage"
)

// BatchProcessor regenerates embeddings for batches of catalog and content
// entries and writes them back.
type BatchProcessor struct {
	catalog        storage.CatalogRepository
	content        storage.ContentRepository
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(catalog storage.CatalogRepository, content storage.ContentRepository, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		catalog:        catalog,
		content:        content,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// ProcessCatalog re-embeds each course from its title and instructor.
func (bp *BatchProcessor) ProcessCatalog(ctx context.Context, entries []*core.CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Course.CatalogText()
	}

	vectors, err := bp.embed(ctx, texts)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].Vector = vectors[i]
	}

	if err := bp.catalog.UpsertCourses(ctx, entries...); err != nil {
		return fmt.Errorf("failed to update catalog: %w", err)
	}
	return nil
}

// ProcessContent re-embeds each chunk from its text.
func (bp *BatchProcessor) ProcessContent(ctx context.Context, entries []*core.ContentEntry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Chunk.Text
	}

	vectors, err := bp.embed(ctx, texts)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].Vector = vectors[i]
	}

	if err := bp.content.UpsertChunks(ctx, entries...); err != nil {
		return fmt.Errorf("failed to update content: %w", err)
	}
	return nil
}

// embed generates normalized embeddings with retry. Normalized vectors keep
// cosine distance stable across providers that do and don't normalize.
func (bp *BatchProcessor) embed(ctx context.Context, texts []string) ([][]float32, error) {
	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(embeddings))
	}

	if _, ok := Dimensions(embeddings); !ok {
		return nil, ErrInconsistentDimensions
	}

	for i := range embeddings {
		embeddings[i] = NormalizeVector(embeddings[i])
	}
	return embeddings, nil
}
