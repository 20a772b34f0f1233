// Package anthropic provides a streaming completion service adapter using
// the Anthropic Messages API.
package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure CompletionService implements the interface.
var _ driven.CompletionService = (*CompletionService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-haiku-latest"

	// DefaultConnectTimeout bounds the initial request. The stream itself
	// is governed by the caller's context, not a client timeout.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultMaxTokens caps reply length; the Messages API requires it.
	DefaultMaxTokens = 4096

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic completion service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the chat model to use (default: claude-3-5-haiku-latest).
	Model string

	// MaxTokens caps the reply length (default: 4096).
	MaxTokens int

	// ConnectTimeout bounds connection establishment (default: 30s).
	ConnectTimeout time.Duration
}

// CompletionService streams chat completions from the Anthropic API.
type CompletionService struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
	System    string            `json:"system,omitempty"`
	Stream    bool              `json:"stream"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// streamEvent is one SSE event in a streamed reply. Only the event types
// carrying text or the terminal marker are decoded; the rest pass through.
type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// errorResponse is the Anthropic API error envelope.
type errorResponse struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewCompletionService creates a new Anthropic completion service.
func NewCompletionService(cfg Config) (*CompletionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic: API key is required", domain.ErrConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}

	return &CompletionService{
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: cfg.ConnectTimeout,
			},
		},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// StreamChat opens a streaming completion for the message sequence.
// System messages are lifted into the Messages API system field.
func (s *CompletionService) StreamChat(ctx context.Context, messages []domain.ChatMessage) (driven.CompletionStream, error) {
	var systemPrompt string
	var apiMessages []messagesMessage

	for _, msg := range messages {
		if msg.Role == domain.RoleSystem {
			systemPrompt = msg.Content
			continue
		}
		apiMessages = append(apiMessages, messagesMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	reqBody := messagesRequest{
		Model:     s.model,
		Messages:  apiMessages,
		MaxTokens: s.maxTokens,
		System:    systemPrompt,
		Stream:    true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: anthropic: send request: %v", domain.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		var errResp errorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != nil {
			return nil, fmt.Errorf("%w: anthropic: %s", domain.ErrTransport, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: anthropic: status %d: %s", domain.ErrTransport, resp.StatusCode, string(body))
	}

	return &completionStream{
		body:   resp.Body,
		reader: bufio.NewReader(resp.Body),
	}, nil
}

// completionStream decodes the SSE response body into text fragments.
type completionStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	done   bool
}

// Recv returns the next non-empty text fragment. A message_stop event
// yields io.EOF; the body ending without one is a dropped connection.
func (st *completionStream) Recv() (string, error) {
	if st.done {
		return "", io.EOF
	}

	for {
		line, err := st.reader.ReadString('\n')
		if err != nil {
			st.done = true
			if err == io.EOF {
				return "", fmt.Errorf("%w: anthropic: connection closed before stream end", domain.ErrStream)
			}
			return "", fmt.Errorf("%w: anthropic: read stream: %v", domain.ErrStream, err)
		}

		line = strings.TrimSpace(line)
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			st.done = true
			return "", fmt.Errorf("%w: anthropic: decode event: %v", domain.ErrStream, err)
		}

		switch event.Type {
		case "message_stop":
			st.done = true
			return "", io.EOF
		case "error":
			st.done = true
			msg := "unknown error"
			if event.Error != nil {
				msg = event.Error.Message
			}
			return "", fmt.Errorf("%w: anthropic: %s", domain.ErrStream, msg)
		case "content_block_delta":
			if event.Delta.Type == "text_delta" && event.Delta.Text != "" {
				return event.Delta.Text, nil
			}
		}
	}
}

// Close releases the underlying connection.
func (st *completionStream) Close() error {
	return st.body.Close()
}

// ModelName returns the name of the chat model being used.
func (s *CompletionService) ModelName() string {
	return s.model
}

// Close releases resources.
func (s *CompletionService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
