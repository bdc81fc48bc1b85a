package mock

import (
	"context"
	"sync"

	"github.com/poiesic/syllabus/ai"
)

// MockCompleter is a test double for ai.Completer.
// Responses are replayed in order; CompleteFunc overrides them when set.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	CompleteFunc func(ctx context.Context, req *ai.CompletionRequest) (*ai.Completion, error)

	// Responses are returned one per call until exhausted.
	Responses []*ai.Completion

	mu       sync.Mutex
	requests []*ai.CompletionRequest
}

// NewMockCompleter creates a mock completer that replays responses.
// Note: Returns concrete type to allow test assertions via GetMockCompleter().
func NewMockCompleter(responses ...*ai.Completion) *MockCompleter {
	return &MockCompleter{Responses: responses}
}

// Complete records the request and returns the next scripted response.
// Without a script it echoes the last user message.
func (m *MockCompleter) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.Completion, error) {
	m.mu.Lock()
	m.requests = append(m.requests, cloneRequest(req))
	n := len(m.requests)
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= len(m.Responses) {
		return m.Responses[n-1], nil
	}

	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == ai.ChatRoleUser {
			return &ai.Completion{Content: req.Messages[i].Content, StopReason: "stop"}, nil
		}
	}
	return &ai.Completion{StopReason: "stop"}, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns copies of every request received, in order.
func (m *MockCompleter) Requests() []*ai.CompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ai.CompletionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears recorded requests, scripted responses and custom functions.
func (m *MockCompleter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.Responses = nil
	m.CompleteFunc = nil
}

// TextCompletion builds a final answer response.
func TextCompletion(text string) *ai.Completion {
	return &ai.Completion{Content: text, StopReason: "stop"}
}

// ToolCallCompletion builds a response requesting a single tool call.
func ToolCallCompletion(name, arguments string) *ai.Completion {
	return &ai.Completion{
		StopReason: "tool_calls",
		ToolCalls:  []ai.ToolCall{{ID: "call_" + name, Name: name, Arguments: arguments}},
	}
}

func cloneRequest(req *ai.CompletionRequest) *ai.CompletionRequest {
	if req == nil {
		return nil
	}
	c := *req
	c.Messages = append([]ai.ChatMessage(nil), req.Messages...)
	c.Tools = append([]ai.ToolDefinition(nil), req.Tools...)
	return &c
}
