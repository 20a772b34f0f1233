package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

// sseServer streams the given SSE lines for any request.
func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			_, _ = io.WriteString(w, line+"\n\n")
		}
	}))
}

func newTestService(t *testing.T, baseURL string) *CompletionService {
	t.Helper()
	svc, err := NewCompletionService(Config{APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)
	return svc
}

// collect drains a stream into its concatenated reply.
func collect(t *testing.T, svc *CompletionService) (string, error) {
	t.Helper()
	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	defer stream.Close()

	var reply string
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return reply, nil
		}
		if err != nil {
			return reply, err
		}
		reply += fragment
	}
}

func TestStreamChatConcatenatesDeltas(t *testing.T) {
	server := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
		`data: {"choices":[{"delta":{"content":"lo"}}]}`,
		`data: {"choices":[{"delta":{}}]}`,
		`data: {"choices":[{"delta":{"content":"!"}}]}`,
		`data: [DONE]`,
	})
	defer server.Close()

	reply, err := collect(t, newTestService(t, server.URL))

	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
}

func TestStreamChatDroppedConnection(t *testing.T) {
	// Body ends without a [DONE] sentinel.
	server := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"partial"}}]}`,
	})
	defer server.Close()

	reply, err := collect(t, newTestService(t, server.URL))

	assert.ErrorIs(t, err, domain.ErrStream)
	assert.Equal(t, "partial", reply)
}

func TestStreamChatMalformedEvent(t *testing.T) {
	server := sseServer(t, []string{
		`data: {not json`,
	})
	defer server.Close()

	_, err := collect(t, newTestService(t, server.URL))

	assert.ErrorIs(t, err, domain.ErrStream)
}

func TestStreamChatAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestRecvAfterDone(t *testing.T) {
	server := sseServer(t, []string{
		`data: {"choices":[{"delta":{"content":"x"}}]}`,
		`data: [DONE]`,
	})
	defer server.Close()

	svc := newTestService(t, server.URL)
	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "hello"},
	})
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Recv()
	require.NoError(t, err)
	_, err = stream.Recv()
	require.ErrorIs(t, err, io.EOF)
	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}

func TestNewCompletionServiceRequiresKey(t *testing.T) {
	_, err := NewCompletionService(Config{})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
