// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/tools"
)

// Toolbox declares and runs tools by name.
// *tools.Manager implements it.
type Toolbox interface {
	Definitions() []ai.ToolDefinition
	Execute(ctx context.Context, name, arguments string) (*tools.Result, error)
}

// Answer is the final reply to a query.
type Answer struct {
	Text    string
	Sources []core.Source
	// ToolCalls is the number of tools the model asked for.
	ToolCalls int
}

// Orchestrator runs the two-round tool-calling protocol.
// It holds no per-query state and is safe for concurrent use.
type Orchestrator struct {
	completer    ai.Completer
	toolbox      Toolbox
	systemPrompt string
	logger       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger.With("component", "orchestrator")
		return nil
	}
}

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) error {
		if strings.TrimSpace(prompt) == "" {
			return errors.New("system prompt cannot be empty")
		}
		o.systemPrompt = prompt
		return nil
	}
}

// New creates an orchestrator.
func New(completer ai.Completer, toolbox Toolbox, opts ...Option) (*Orchestrator, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if toolbox == nil {
		return nil, ErrToolboxRequired
	}

	o := &Orchestrator{
		completer:    completer,
		toolbox:      toolbox,
		systemPrompt: DefaultSystemPrompt,
		logger:       slog.Default().With("component", "orchestrator"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Answer replies to query given the prior conversation.
func (o *Orchestrator) Answer(ctx context.Context, query string, history []core.Message) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	messages := []ai.ChatMessage{{Role: ai.ChatRoleUser, Content: query}}

	// Round 1: tools offered
	first, err := o.completer.Complete(ctx, &ai.CompletionRequest{
		System:   o.systemPrompt,
		History:  history,
		Messages: messages,
		Tools:    o.toolbox.Definitions(),
	})
	if err != nil {
		return nil, &ProviderError{Round: 1, Err: err}
	}
	if !first.WantsTools() {
		o.logger.Debug("answered without tools")
		return &Answer{Text: first.Content}, nil
	}

	// Tool execution, strictly in request order
	messages = append(messages, ai.ChatMessage{
		Role:      ai.ChatRoleAssistant,
		Content:   first.Content,
		ToolCalls: first.ToolCalls,
	})
	var sources []core.Source
	for _, call := range first.ToolCalls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, callSources := o.runTool(ctx, call)
		sources = append(sources, callSources...)
		messages = append(messages, ai.ChatMessage{
			Role:       ai.ChatRoleTool,
			Content:    text,
			ToolCallID: call.ID,
			Name:       call.Name,
		})
	}

	// Round 2: tools withheld
	second, err := o.completer.Complete(ctx, &ai.CompletionRequest{
		System:   o.systemPrompt,
		History:  history,
		Messages: messages,
	})
	if err != nil {
		return nil, &ProviderError{Round: 2, Err: err}
	}

	o.logger.Debug("answered with tools", "tool_calls", len(first.ToolCalls), "sources", len(sources))
	return &Answer{
		Text:      second.Content,
		Sources:   sources,
		ToolCalls: len(first.ToolCalls),
	}, nil
}

// runTool executes one call and renders failures as text for the model.
func (o *Orchestrator) runTool(ctx context.Context, call ai.ToolCall) (string, []core.Source) {
	result, err := o.toolbox.Execute(ctx, call.Name, call.Arguments)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		o.logger.Warn("model requested unknown tool", "name", call.Name)
		return fmt.Sprintf("Tool '%s' not found", call.Name), nil
	case err != nil:
		o.logger.Warn("tool execution failed", "name", call.Name, "err", err)
		return fmt.Sprintf("Tool '%s' failed: %v", call.Name, err), nil
	default:
		return result.Text, result.Sources
	}
}
