package openai

import (
	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
	"github.com/tmc/langchaingo/llms"
)

const historyHeader = "\n\nPrevious conversation:\n"

// The functions in this file are the only place where the provider-neutral
// ai types meet the OpenAI wire format.

// toolsToLLM converts tool declarations into OpenAI function tools.
func toolsToLLM(tools []ai.ToolDefinition) []llms.Tool {
	out := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		params := t.Parameters
		if params == nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// systemWithHistory appends the rendered history to the system prompt.
func systemWithHistory(system string, history []core.Message) string {
	if len(history) == 0 {
		return system
	}
	return system + historyHeader + core.FormatHistory(history)
}

// messagesToLLM builds the message sequence for GenerateContent.
// Every tool result becomes its own message so each carries one call ID.
func messagesToLLM(system string, messages []ai.ChatMessage) []llms.MessageContent {
	out := make([]llms.MessageContent, 0, len(messages)+1)
	if system != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}

	for _, m := range messages {
		switch m.Role {
		case ai.ChatRoleAssistant:
			parts := make([]llms.ContentPart, 0, len(m.ToolCalls)+1)
			if m.Content != "" {
				parts = append(parts, llms.TextPart(m.Content))
			}
			for _, tc := range m.ToolCalls {
				parts = append(parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			out = append(out, llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts})
		case ai.ChatRoleTool:
			out = append(out, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: m.ToolCallID,
						Name:       m.Name,
						Content:    m.Content,
					},
				},
			})
		default:
			out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}
	return out
}

// completionFromLLM converts the first response choice.
func completionFromLLM(choice *llms.ContentChoice) *ai.Completion {
	c := &ai.Completion{
		Content:    choice.Content,
		StopReason: choice.StopReason,
	}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		c.ToolCalls = append(c.ToolCalls, ai.ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: normalizeArguments(tc.FunctionCall.Arguments),
		})
	}
	return c
}
