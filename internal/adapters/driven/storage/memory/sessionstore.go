// Package memory provides an in-memory session store for tests and
// ephemeral runs where persistence is not wanted.
package memory

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore holds chat state in memory. Load returns a deep copy so
// callers cannot mutate the stored state through shared slices.
type SessionStore struct {
	mu    sync.Mutex
	state []byte
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Load retrieves the stored chat state.
// Returns (nil, nil) when no state has been saved yet.
func (s *SessionStore) Load() (*domain.ChatState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return nil, nil
	}

	var state domain.ChatState
	if err := json.Unmarshal(s.state, &state); err != nil {
		return nil, fmt.Errorf("%w: parse chat state: %v", domain.ErrParse, err)
	}
	return &state, nil
}

// Save stores the full chat state, replacing any previous value.
func (s *SessionStore) Save(state *domain.ChatState) error {
	if state == nil {
		return domain.ErrInvalidInput
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal chat state: %w", err)
	}

	s.mu.Lock()
	s.state = data
	s.mu.Unlock()
	return nil
}

// Close releases resources.
func (s *SessionStore) Close() error {
	return nil
}
