// Package mock provides a network-free completion service that echoes the
// user's question, for offline development and testing.
package mock

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// fragmentDelay paces fragments so the UI's streaming path is exercised.
const fragmentDelay = 5 * time.Millisecond

// fragmentSize is the number of runes per emitted fragment.
const fragmentSize = 8

// CompletionService produces a canned reply that embeds the last user
// message, streamed in small fragments.
type CompletionService struct{}

// NewCompletionService creates a mock completion service.
func NewCompletionService() *CompletionService {
	return &CompletionService{}
}

// StreamChat opens a stream replaying the canned reply.
func (s *CompletionService) StreamChat(ctx context.Context, messages []domain.ChatMessage) (driven.CompletionStream, error) {
	var question string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			question = messages[i].Content
			break
		}
	}

	reply := fmt.Sprintf(
		"[Development Mode Response]\n\nYou asked: %q\n\n"+
			"This is a simulated answer produced without calling any provider. "+
			"Configure a completion provider to get real answers.",
		question,
	)

	return &completionStream{ctx: ctx, remaining: []rune(reply)}, nil
}

// completionStream emits the reply in fixed-size rune fragments.
type completionStream struct {
	ctx       context.Context
	remaining []rune
}

// Recv returns the next fragment after a short pacing delay.
func (st *completionStream) Recv() (string, error) {
	if len(st.remaining) == 0 {
		return "", io.EOF
	}

	select {
	case <-st.ctx.Done():
		return "", st.ctx.Err()
	case <-time.After(fragmentDelay):
	}

	n := fragmentSize
	if n > len(st.remaining) {
		n = len(st.remaining)
	}
	fragment := string(st.remaining[:n])
	st.remaining = st.remaining[n:]
	return fragment, nil
}

// Close discards any unread fragments.
func (st *completionStream) Close() error {
	st.remaining = nil
	return nil
}

// ModelName returns the name of the model being used.
func (s *CompletionService) ModelName() string {
	return "mock-completion"
}

// Close releases resources.
func (s *CompletionService) Close() error {
	return nil
}
