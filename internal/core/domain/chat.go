package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single message in a conversation.
// System messages carry grounding context and are synthesised per turn;
// they are never part of the persisted, user-visible history.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string `json:"id"`

	// Role is one of "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`

	// Timestamp is when the message was created. Serialised as RFC 3339.
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage creates a message with a fresh ID and timestamp.
func NewChatMessage(role, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// ChatSession is one conversation with the assistant.
type ChatSession struct {
	// ID is the unique identifier for the session.
	ID string `json:"id"`

	// Title is a short label, derived from the first user message.
	Title string `json:"title"`

	// Messages is the ordered conversation history.
	Messages []ChatMessage `json:"messages"`

	// IsLoading is true while a response is being generated.
	IsLoading bool `json:"isLoading"`

	// Error holds an inline error for the session's last turn, if any.
	Error string `json:"error,omitempty"`

	// CreatedAt is when the session was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the session last changed.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewChatSession creates a fresh, empty session.
func NewChatSession() ChatSession {
	now := time.Now().UTC()
	return ChatSession{
		ID:        uuid.New().String(),
		Title:     "New chat",
		Messages:  []ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ChatState is the full client session state: every session plus which one
// is active. At least one session always exists.
type ChatState struct {
	// Sessions holds all sessions, oldest first.
	Sessions []ChatSession `json:"sessions"`

	// ActiveID identifies the currently active session.
	ActiveID string `json:"activeId"`
}

// NewChatState creates state with a single fresh active session.
func NewChatState() *ChatState {
	sess := NewChatSession()
	return &ChatState{
		Sessions: []ChatSession{sess},
		ActiveID: sess.ID,
	}
}

// Session returns the session with the given ID, or nil.
func (s *ChatState) Session(id string) *ChatSession {
	for i := range s.Sessions {
		if s.Sessions[i].ID == id {
			return &s.Sessions[i]
		}
	}
	return nil
}

// Active returns the active session, or nil if ActiveID is stale.
func (s *ChatState) Active() *ChatSession {
	return s.Session(s.ActiveID)
}
