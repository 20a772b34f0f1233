// Package google provides a streaming completion service adapter using
// the Gemini API.
package google

import (
	"context"
	"fmt"
	"io"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// DefaultModel is the Gemini chat model used when none is configured.
const DefaultModel = "gemini-1.5-flash"

// Config holds configuration for the Google completion service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the chat model to use (default: gemini-1.5-flash).
	Model string
}

// CompletionService streams chat completions from the Gemini API.
type CompletionService struct {
	client *genai.Client
	model  string
}

// NewCompletionService creates a new Google completion service.
func NewCompletionService(ctx context.Context, cfg Config) (*CompletionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: google: API key is required", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("%w: google: create client: %v", domain.ErrTransport, err)
	}

	return &CompletionService{
		client: client,
		model:  cfg.Model,
	}, nil
}

// StreamChat opens a streaming completion for the message sequence.
// A system message becomes the model's system instruction; earlier turns
// seed the chat history and the final user message is sent streaming.
func (s *CompletionService) StreamChat(ctx context.Context, messages []domain.ChatMessage) (driven.CompletionStream, error) {
	model := s.client.GenerativeModel(s.model)

	var turns []domain.ChatMessage
	for _, msg := range messages {
		if msg.Role == domain.RoleSystem {
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(msg.Content)},
			}
			continue
		}
		turns = append(turns, msg)
	}

	if len(turns) == 0 || turns[len(turns)-1].Role != domain.RoleUser {
		return nil, fmt.Errorf("%w: google: conversation must end with a user message", domain.ErrInvalidInput)
	}
	last := turns[len(turns)-1]

	session := model.StartChat()
	for _, msg := range turns[:len(turns)-1] {
		role := "user"
		if msg.Role == domain.RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	iter := session.SendMessageStream(ctx, genai.Text(last.Content))
	return &completionStream{iter: iter}, nil
}

// completionStream adapts the genai response iterator.
type completionStream struct {
	iter *genai.GenerateContentResponseIterator
	done bool
}

// Recv returns the next non-empty text fragment.
func (st *completionStream) Recv() (string, error) {
	if st.done {
		return "", io.EOF
	}

	for {
		resp, err := st.iter.Next()
		if err == iterator.Done {
			st.done = true
			return "", io.EOF
		}
		if err != nil {
			st.done = true
			return "", fmt.Errorf("%w: google: read stream: %v", domain.ErrStream, err)
		}

		var fragment string
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					fragment += string(text)
				}
			}
		}
		if fragment != "" {
			return fragment, nil
		}
	}
}

// Close stops consuming the stream.
func (st *completionStream) Close() error {
	st.done = true
	return nil
}

// ModelName returns the name of the chat model being used.
func (s *CompletionService) ModelName() string {
	return s.model
}

// Close releases the underlying client.
func (s *CompletionService) Close() error {
	return s.client.Close()
}
