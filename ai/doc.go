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


// Package ai provides abstractions for the AI services syllabus depends on.
//
// Two services are involved in answering a question about course material:
//
//   - Embedder: turns text into vectors for the course catalog and content index
//   - Completer: runs one chat completion round, optionally offering tools
//   - AIProvider: aggregates both for shared configuration and lifecycle
//
// Messages, tool declarations and tool calls are modeled here in a
// provider-neutral shape. Conversion to a vendor wire format happens only in
// the implementation packages.
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible services through langchaingo
//   - ai/mock: test doubles without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder,
// openai.NewCompleter) return INTERFACE types. Mock constructors return
// CONCRETE types so tests can inject behavior and inspect call counts.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//	completer := mock.NewMockCompleter()         // returns *mock.MockCompleter
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithCompletionHost("https://openrouter.ai/api/v1"),
//	    ai.WithCompletionModel("anthropic/claude-sonnet-4"),
//	    ai.WithAPIKey(os.Getenv("OPENROUTER_API_KEY")),
//	)
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "What is MCP?")
//	completion, err := provider.Completer().Complete(ctx, &ai.CompletionRequest{
//	    System:   "You answer questions about course materials.",
//	    Messages: []ai.ChatMessage{{Role: ai.ChatRoleUser, Content: "What is MCP?"}},
//	})
package ai
