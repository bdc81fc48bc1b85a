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


// Package session keeps bounded conversation histories keyed by session ID.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/poiesic/syllabus/core"
)

// DefaultMaxHistory is the number of exchanges kept per session.
const DefaultMaxHistory = 2

// ErrInvalidMaxHistory is returned for a non-positive history bound.
var ErrInvalidMaxHistory = errors.New("max history must be positive")

// Store holds conversation histories in memory. It is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	sessions   map[string][]core.Message
	maxHistory int
	logger     *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithMaxHistory sets how many user/assistant exchanges are kept per session.
func WithMaxHistory(n int) Option {
	return func(s *Store) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidMaxHistory, n)
		}
		s.maxHistory = n
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "sessions")
		return nil
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) (*Store, error) {
	s := &Store{
		sessions:   make(map[string][]core.Message),
		maxHistory: DefaultMaxHistory,
		logger:     slog.Default().With("component", "sessions"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Create starts a new empty session and returns its ID.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = nil
	s.mu.Unlock()
	s.logger.Debug("created session", "id", id)
	return id
}

// Exists reports whether a session is known.
func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// Append adds a message to a session, creating the session if needed.
// Only the most recent exchanges are retained.
func (s *Store) Append(id string, role core.Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append(s.sessions[id], core.Message{Role: role, Content: text})
	if keep := s.maxHistory * 2; len(messages) > keep {
		messages = append([]core.Message(nil), messages[len(messages)-keep:]...)
	}
	s.sessions[id] = messages
}

// AddExchange appends a question and its answer.
func (s *Store) AddExchange(id, question, answer string) {
	s.Append(id, core.RoleUser, question)
	s.Append(id, core.RoleAssistant, answer)
}

// History returns a copy of the most recent maxPairs exchanges of a session,
// oldest first. A non-positive maxPairs uses the store bound.
func (s *Store) History(id string, maxPairs int) []core.Message {
	if maxPairs <= 0 || maxPairs > s.maxHistory {
		maxPairs = s.maxHistory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages := s.sessions[id]
	if keep := maxPairs * 2; len(messages) > keep {
		messages = messages[len(messages)-keep:]
	}
	if len(messages) == 0 {
		return nil
	}
	return append([]core.Message(nil), messages...)
}

// Clear forgets a session.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of known sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
