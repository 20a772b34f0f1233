package mock

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

func TestStreamChatEchoesQuestion(t *testing.T) {
	svc := NewCompletionService()

	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "context"},
		{Role: domain.RoleUser, Content: "what is chunking?"},
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

	assert.Contains(t, reply, "[Development Mode Response]")
	assert.Contains(t, reply, "what is chunking?")
}

func TestStreamChatUsesLastUserMessage(t *testing.T) {
	svc := NewCompletionService()

	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "first question"},
		{Role: domain.RoleAssistant, Content: "an answer"},
		{Role: domain.RoleUser, Content: "second question"},
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

	assert.Contains(t, reply, "second question")
	assert.NotContains(t, reply, "first question")
}

func TestStreamChatCancellation(t *testing.T) {
	svc := NewCompletionService()

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := svc.StreamChat(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "question"},
	})
	require.NoError(t, err)
	defer stream.Close()

	cancel()

	_, err = stream.Recv()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseDiscardsRemainder(t *testing.T) {
	svc := NewCompletionService()

	stream, err := svc.StreamChat(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "question"},
	})
	require.NoError(t, err)

	require.NoError(t, stream.Close())

	_, err = stream.Recv()
	assert.ErrorIs(t, err, io.EOF)
}
