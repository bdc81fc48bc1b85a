// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.Completer,
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Scripted completions
//	completer := mock.NewMockCompleter(
//	    mock.ToolCallCompletion("search_course_content", `{"query":"mcp"}`),
//	    mock.TextCompletion("MCP is a protocol."),
//	)
//
//	// Check call counts
//	count := completer.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockEmbedder: Returns bag-of-words vectors, so texts sharing words
//     land close together
//   - MockCompleter: Replays scripted responses, then echoes the last user message
//   - MockProvider: Aggregates mock embedder and completer
package mock
