package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

func TestStreamChatConcatenatesDeltas(t *testing.T) {
	var gotReq messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range []string{
			`data: {"type":"message_start"}`,
			`data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"Hi "}}`,
			`data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"there"}}`,
			`data: {"type":"message_stop"}`,
		} {
			_, _ = io.WriteString(w, line+"\n\n")
		}
	}))
	defer server.Close()

	svc, err := NewCompletionService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "grounding context"},
		{Role: domain.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	defer stream.Close()

	var reply string
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		reply += fragment
	}

	assert.Equal(t, "Hi there", reply)

	// System messages are lifted into the system field.
	assert.Equal(t, "grounding context", gotReq.System)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.True(t, gotReq.Stream)
}

func TestStreamChatDroppedConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, `data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"partial"}}`+"\n\n")
		// No message_stop before the body ends.
	}))
	defer server.Close()

	svc, err := NewCompletionService(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	defer stream.Close()

	fragment, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, "partial", fragment)

	_, err = stream.Recv()
	assert.ErrorIs(t, err, domain.ErrStream)
}

func TestStreamChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	svc, err := NewCompletionService(Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "invalid x-api-key")
}

func TestNewCompletionServiceRequiresKey(t *testing.T) {
	_, err := NewCompletionService(Config{})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
