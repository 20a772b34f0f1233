package driving

import (
	"context"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

// ChatService manages chat sessions and runs grounded conversation turns.
// Session management is purely local state; at least one session always
// exists.
type ChatService interface {
	// State returns a snapshot of all sessions and the active session ID.
	State() domain.ChatState

	// NewSession creates a fresh session and makes it active.
	NewSession() domain.ChatSession

	// SwitchSession makes the given session active.
	SwitchSession(id string) error

	// DeleteSession removes a session. Deleting the last remaining
	// session immediately creates a fresh empty one, which becomes active.
	DeleteSession(id string) error

	// Send runs one conversation turn on the active session: it appends
	// the user message, retrieves grounding context, streams the
	// assistant reply into a single growing message and invokes onDelta
	// for every received fragment. On failure the session keeps its prior
	// messages and records an inline error.
	Send(ctx context.Context, input string, onDelta func(fragment string)) error
}
