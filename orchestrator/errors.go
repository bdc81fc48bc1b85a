package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrCompleterRequired is returned when a completer is not provided.
	ErrCompleterRequired = errors.New("completer required")

	// ErrToolboxRequired is returned when a toolbox is not provided.
	ErrToolboxRequired = errors.New("toolbox required")

	// ErrEmptyQuery is returned when the query has no text.
	ErrEmptyQuery = errors.New("query is empty")
)

// ProviderError reports a failed completion round. No partial answer exists.
type ProviderError struct {
	Round int
	Err   error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion round %d failed: %v", e.Round, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
