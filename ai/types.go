package ai

import "github.com/poiesic/syllabus/core"

// ChatRole identifies the author of a message sent to a Completer.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleTool      ChatRole = "tool"
)

// ToolDefinition declares a callable tool to the completion service.
// Parameters is a JSON schema object describing the tool arguments.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a request from the completion service to run a tool.
// Arguments holds the raw JSON argument object.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ChatMessage is one entry of the message sequence of a completion request.
//
// Assistant messages may carry ToolCalls. Tool messages carry the result of
// one call in Content and reference it through ToolCallID and Name.
type ChatMessage struct {
	Role       ChatRole
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

// CompletionRequest is the input of one completion round trip.
// History is prior conversation; providers decide how to serialize it.
type CompletionRequest struct {
	System   string
	History  []core.Message
	Messages []ChatMessage
	Tools    []ToolDefinition
}

// Completion is the output of one completion round trip.
type Completion struct {
	Content    string
	ToolCalls  []ToolCall
	StopReason string
}

// WantsTools reports whether the service asked for tool execution.
func (c *Completion) WantsTools() bool {
	return c != nil && len(c.ToolCalls) > 0
}
