package driven

import "github.com/custodia-labs/docuchat-cli/internal/core/domain"

// SessionStore persists chat session state between runs under a single
// fixed key, with Date fields serialised as RFC 3339 strings.
type SessionStore interface {
	// Load retrieves the stored state. Returns (nil, nil) when no state
	// has been saved yet.
	Load() (*domain.ChatState, error)

	// Save stores the full state, replacing any previous value.
	Save(state *domain.ChatState) error

	// Close releases resources.
	Close() error
}
