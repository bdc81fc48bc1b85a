package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/syllabus/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client      llms.Model
	temperature float64
	maxTokens   int
	limiter     *rate.Limiter
	logger      *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config, limiter *rate.Limiter) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.CompletionHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:      client,
		temperature: config.Temperature,
		maxTokens:   config.MaxTokens,
		limiter:     limiter,
		logger:      slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config, newLimiter(config.RequestsPerSecond))
}

// Complete runs one chat completion round trip.
func (c *Completer) Complete(ctx context.Context, req *ai.CompletionRequest) (*ai.Completion, error) {
	if err := wait(ctx, c.limiter); err != nil {
		return nil, err
	}

	opts := []llms.CallOption{
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	}
	if len(req.Tools) > 0 {
		opts = append(opts, llms.WithTools(toolsToLLM(req.Tools)))
	}

	c.logger.Debug("requesting completion", "messages", len(req.Messages), "tools", len(req.Tools))
	resp, err := c.client.GenerateContent(ctx, messagesToLLM(systemWithHistory(req.System, req.History), req.Messages), opts...)
	if err != nil {
		c.logger.Error("completion failed", "err", err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	completion := completionFromLLM(resp.Choices[0])
	c.logger.Debug("completion received",
		"stop_reason", completion.StopReason, "tool_calls", len(completion.ToolCalls))
	return completion, nil
}
