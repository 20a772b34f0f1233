package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// titleLimit bounds session titles derived from the first user message.
const titleLimit = 40

// systemPreamble frames every grounded turn. The retrieved chunks are
// appended below it, each tagged with its source path.
const systemPreamble = `You are a helpful assistant answering questions about this documentation site.
Answer using ONLY the documentation excerpts below. If the excerpts do not
contain the answer, say so rather than guessing. Cite the source path of
the excerpts you used.`

// ChatService manages chat sessions and runs grounded conversation turns.
// All state access is serialised through one mutex; Send holds it only
// while mutating state, not while streaming.
type ChatService struct {
	retriever driving.Retriever
	completer driven.CompletionService
	sessions  driven.SessionStore

	mu    sync.Mutex
	state *domain.ChatState
	busy  bool
}

// NewChatService creates a chat service, restoring persisted session
// state. Missing or unreadable state starts fresh with one session.
func NewChatService(
	retriever driving.Retriever,
	completer driven.CompletionService,
	sessions driven.SessionStore,
) *ChatService {
	s := &ChatService{
		retriever: retriever,
		completer: completer,
		sessions:  sessions,
	}

	if sessions != nil {
		state, err := sessions.Load()
		if err != nil {
			logger.Warn("Could not restore sessions: %v", err)
		} else {
			s.state = state
		}
	}
	if s.state == nil || len(s.state.Sessions) == 0 {
		s.state = domain.NewChatState()
	}
	if s.state.Active() == nil {
		s.state.ActiveID = s.state.Sessions[len(s.state.Sessions)-1].ID
	}
	return s
}

// State returns a snapshot of all sessions and the active session ID.
func (s *ChatService) State() domain.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *cloneState(s.state)
}

// NewSession creates a fresh session and makes it active.
func (s *ChatService) NewSession() domain.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := domain.NewChatSession()
	s.state.Sessions = append(s.state.Sessions, sess)
	s.state.ActiveID = sess.ID
	s.persistLocked()
	return sess
}

// SwitchSession makes the given session active.
func (s *ChatService) SwitchSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Session(id) == nil {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}
	s.state.ActiveID = id
	s.persistLocked()
	return nil
}

// DeleteSession removes a session. Deleting the last remaining session
// immediately creates a fresh empty one, which becomes active.
func (s *ChatService) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.state.Sessions {
		if s.state.Sessions[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, id)
	}

	s.state.Sessions = append(s.state.Sessions[:idx], s.state.Sessions[idx+1:]...)

	if len(s.state.Sessions) == 0 {
		sess := domain.NewChatSession()
		s.state.Sessions = []domain.ChatSession{sess}
		s.state.ActiveID = sess.ID
	} else if s.state.ActiveID == id {
		s.state.ActiveID = s.state.Sessions[len(s.state.Sessions)-1].ID
	}
	s.persistLocked()
	return nil
}

// Send runs one conversation turn on the active session. The user
// message is appended immediately; the assistant reply grows in place as
// fragments arrive and onDelta fires for each one. On failure the
// session keeps its prior messages and records an inline error.
func (s *ChatService) Send(ctx context.Context, input string, onDelta func(fragment string)) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	if s.completer == nil {
		return fmt.Errorf("%w: no completion provider configured", domain.ErrConfiguration)
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domain.ErrSessionBusy
	}
	s.busy = true

	sess := s.state.Active()
	userMsg := domain.NewChatMessage(domain.RoleUser, input)
	sess.Messages = append(sess.Messages, userMsg)
	sess.IsLoading = true
	sess.Error = ""
	sess.UpdatedAt = userMsg.Timestamp
	if sess.Title == "New chat" {
		sess.Title = deriveTitle(input)
	}
	history := cloneMessages(sess.Messages)
	sessID := sess.ID
	s.persistLocked()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		if cur := s.state.Session(sessID); cur != nil {
			cur.IsLoading = false
		}
		s.persistLocked()
		s.mu.Unlock()
	}()

	reply, streamErr := s.streamTurn(ctx, input, history, func(fragment, sofar string) {
		s.mu.Lock()
		if cur := s.state.Session(sessID); cur != nil {
			setAssistantReply(cur, sofar)
		}
		s.mu.Unlock()
		if onDelta != nil {
			onDelta(fragment)
		}
	})

	if streamErr != nil {
		s.mu.Lock()
		if cur := s.state.Session(sessID); cur != nil {
			cur.Error = streamErr.Error()
			if reply == "" {
				dropAssistantReply(cur)
			}
		}
		s.mu.Unlock()
		return streamErr
	}
	return nil
}

// streamTurn retrieves grounding context, opens the completion stream and
// accumulates the reply. onFragment receives each fragment and the
// concatenation so far. Returns whatever reply accumulated even on error.
func (s *ChatService) streamTurn(
	ctx context.Context,
	input string,
	history []domain.ChatMessage,
	onFragment func(fragment, sofar string),
) (string, error) {
	system, err := s.buildSystemMessage(ctx, input)
	if err != nil {
		return "", err
	}

	messages := make([]domain.ChatMessage, 0, len(history)+1)
	messages = append(messages, system)
	messages = append(messages, history...)

	stream, err := s.completer.StreamChat(ctx, messages)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	var reply strings.Builder
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return reply.String(), nil
		}
		if err != nil {
			return reply.String(), err
		}
		reply.WriteString(fragment)
		onFragment(fragment, reply.String())
	}
}

// buildSystemMessage assembles the grounding system prompt for a turn.
// Retrieval failures other than a missing corpus abort the turn; with no
// corpus built the assistant still answers, unaided.
func (s *ChatService) buildSystemMessage(ctx context.Context, input string) (domain.ChatMessage, error) {
	var b strings.Builder
	b.WriteString(systemPreamble)

	if s.retriever != nil {
		chunks, err := s.retriever.Retrieve(ctx, input, 0)
		switch {
		case errors.Is(err, domain.ErrNoCorpus):
			logger.Debug("No corpus available, answering without grounding")
		case err != nil:
			return domain.ChatMessage{}, fmt.Errorf("retrieve context: %w", err)
		default:
			b.WriteString("\n\nDocumentation excerpts:\n")
			for _, sc := range chunks {
				fmt.Fprintf(&b, "\n[Source: %s]\n%s\n", sc.Chunk.Metadata.FilePath, sc.Chunk.Text)
			}
		}
	}

	return domain.NewChatMessage(domain.RoleSystem, b.String()), nil
}

// setAssistantReply updates the growing assistant message, appending it
// on the first fragment.
func setAssistantReply(sess *domain.ChatSession, content string) {
	n := len(sess.Messages)
	if n > 0 && sess.Messages[n-1].Role == domain.RoleAssistant {
		sess.Messages[n-1].Content = content
		return
	}
	sess.Messages = append(sess.Messages, domain.NewChatMessage(domain.RoleAssistant, content))
}

// dropAssistantReply removes a trailing empty assistant message.
func dropAssistantReply(sess *domain.ChatSession) {
	n := len(sess.Messages)
	if n > 0 && sess.Messages[n-1].Role == domain.RoleAssistant && sess.Messages[n-1].Content == "" {
		sess.Messages = sess.Messages[:n-1]
	}
}

// persistLocked saves state best-effort. Callers hold s.mu.
func (s *ChatService) persistLocked() {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.Save(s.state); err != nil {
		logger.Warn("Could not persist sessions: %v", err)
	}
}

// deriveTitle shortens the first user message into a session title.
func deriveTitle(input string) string {
	title := strings.Join(strings.Fields(input), " ")
	if len(title) > titleLimit {
		title = strings.TrimSpace(title[:titleLimit]) + "…"
	}
	return title
}

// cloneState deep-copies state through JSON, the same shape it persists as.
func cloneState(state *domain.ChatState) *domain.ChatState {
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewChatState()
	}
	var copied domain.ChatState
	if err := json.Unmarshal(data, &copied); err != nil {
		return domain.NewChatState()
	}
	return &copied
}

// cloneMessages copies a message slice so streaming never aliases state.
func cloneMessages(messages []domain.ChatMessage) []domain.ChatMessage {
	copied := make([]domain.ChatMessage, len(messages))
	copy(copied, messages)
	return copied
}
