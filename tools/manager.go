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


package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/syllabus/ai"
)

// Manager registers tools and dispatches calls by name.
type Manager struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	logger *slog.Logger
}

// NewManager creates a manager holding the given tools.
func NewManager(tools ...Tool) (*Manager, error) {
	m := &Manager{
		tools:  make(map[string]Tool),
		logger: slog.Default().With("component", "tool-manager"),
	}
	for _, t := range tools {
		if err := m.Register(t); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Register adds a tool under its definition name.
func (m *Manager) Register(tool Tool) error {
	if tool == nil {
		return ErrInvalidTool
	}
	name := tool.Definition().Name
	if name == "" {
		return ErrInvalidTool
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	m.tools[name] = tool
	m.order = append(m.order, name)
	return nil
}

// Definitions returns the declarations of every tool in registration order.
func (m *Manager) Definitions() []ai.ToolDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	defs := make([]ai.ToolDefinition, 0, len(m.order))
	for _, name := range m.order {
		defs = append(defs, m.tools[name].Definition())
	}
	return defs
}

// Tool returns the tool registered under name.
func (m *Manager) Tool(name string) (Tool, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tools[name]
	return t, ok
}

// Execute runs the named tool. Returns ErrUnknownTool if it is not registered.
func (m *Manager) Execute(ctx context.Context, name, arguments string) (*Result, error) {
	tool, ok := m.Tool(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	m.logger.Debug("executing tool", "name", name, "arguments", arguments)
	return tool.Execute(ctx, arguments)
}
