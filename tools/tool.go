package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
)

// Tool is a local function callable by the completion service.
// Implementations must be safe for concurrent use.
type Tool interface {
	// Definition describes the tool before it is invoked.
	Definition() ai.ToolDefinition

	// Execute runs the tool with a raw JSON argument object.
	Execute(ctx context.Context, arguments string) (*Result, error)
}

// Result is the output of one tool execution.
type Result struct {
	Text    string
	Sources []core.Source
}

// lessonNumber accepts a JSON number or a numeric string. Models are not
// consistent about which they send.
type lessonNumber struct {
	value int
	set   bool
}

func (l *lessonNumber) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return fmt.Errorf("lesson_number must be an integer, got %s", data)
	}
	if f < 0 {
		return fmt.Errorf("%w: lesson_number must not be negative, got %s", ErrInvalidArguments, data)
	}
	l.value, l.set = int(f), true
	return nil
}

// ptr returns the lesson number or nil when it was not given.
func (l lessonNumber) ptr() *int {
	if !l.set {
		return nil
	}
	v := l.value
	return &v
}

func decodeArguments(arguments string, v any) error {
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	if err := json.Unmarshal([]byte(arguments), v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return nil
}
