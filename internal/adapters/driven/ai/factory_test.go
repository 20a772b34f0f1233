package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

func TestMockModeOverridesProviders(t *testing.T) {
	cfg := domain.Config{
		MockMode:  true,
		LLM:       domain.LLMSettings{Provider: domain.ProviderOpenAI},
		Embedding: domain.EmbeddingSettings{Provider: domain.ProviderOpenAI},
	}
	ctx := context.Background()

	embedder, err := CreateEmbeddingService(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock-embedding", embedder.ModelName())

	completer, err := CreateCompletionService(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock-completion", completer.ModelName())
}

func TestMockProviderNeedsNoKey(t *testing.T) {
	cfg := domain.Config{
		LLM:       domain.LLMSettings{Provider: domain.ProviderMock},
		Embedding: domain.EmbeddingSettings{Provider: domain.ProviderMock, Dimensions: 32},
	}
	ctx := context.Background()

	embedder, err := CreateEmbeddingService(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 32, embedder.Dimensions())

	_, err = CreateCompletionService(ctx, cfg)
	assert.NoError(t, err)
}

func TestMissingKeyFailsBeforeAnyIO(t *testing.T) {
	cfg := domain.Config{
		LLM:       domain.LLMSettings{Provider: domain.ProviderOpenAI},
		Embedding: domain.EmbeddingSettings{Provider: domain.ProviderOpenAI},
	}
	ctx := context.Background()

	_, err := CreateEmbeddingService(ctx, cfg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = CreateCompletionService(ctx, cfg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestAnthropicEmbeddingsUnsupported(t *testing.T) {
	cfg := domain.Config{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.ProviderAnthropic,
			APIKey:   "sk-ant-test",
		},
	}

	_, err := CreateEmbeddingService(context.Background(), cfg)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestPineconeCompletionsUnsupported(t *testing.T) {
	cfg := domain.Config{
		LLM: domain.LLMSettings{
			Provider: domain.ProviderPinecone,
			APIKey:   "pc-test",
		},
	}

	_, err := CreateCompletionService(context.Background(), cfg)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestOpenAIServicesFromConfig(t *testing.T) {
	cfg := domain.Config{
		LLM: domain.LLMSettings{
			Provider: domain.ProviderOpenAI,
			APIKey:   "sk-test",
			Model:    "gpt-4o-mini",
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   domain.ProviderOpenAI,
			APIKey:     "sk-test",
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
	}
	ctx := context.Background()

	embedder, err := CreateEmbeddingService(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", embedder.ModelName())
	assert.Equal(t, 1536, embedder.Dimensions())

	completer, err := CreateCompletionService(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", completer.ModelName())
}
