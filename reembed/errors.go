package reembed

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrInconsistentDimensions is returned when an embedder returns vectors
	// of different lengths in one batch.
	ErrInconsistentDimensions = errors.New("embeddings have inconsistent dimensions")
)
