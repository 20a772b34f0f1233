package driven

import (
	"context"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

// CompletionStream is a lazily consumed assistant reply. Fragments,
// concatenated in Recv order, form the full reply.
//
// Recv returns io.EOF when the provider signals normal end-of-stream.
// A connection drop or decode failure before that point returns an error
// wrapping domain.ErrStream instead. Callers may stop early; Close
// releases the underlying connection promptly and is safe to call at any
// point, including after Recv returned an error.
type CompletionStream interface {
	// Recv returns the next text fragment.
	Recv() (string, error)

	// Close releases the underlying connection.
	Close() error
}

// CompletionService streams chat completions from a language model.
//
// Implementations may include:
//   - OpenAI (chat completions SSE)
//   - Anthropic (messages event stream)
//   - Google (Gemini streaming)
//   - Mock (deterministic echo, offline)
type CompletionService interface {
	// StreamChat opens a streaming completion for the message sequence.
	StreamChat(ctx context.Context, messages []domain.ChatMessage) (CompletionStream, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
