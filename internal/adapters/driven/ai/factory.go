// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"

	googleembed "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/embedding/google"
	mockembed "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/embedding/mock"
	openaiembed "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/embedding/openai"
	pineconeembed "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/embedding/pinecone"
	anthropicllm "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/llm/anthropic"
	googlellm "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/llm/google"
	mockllm "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/llm/mock"
	openaillm "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// CreateEmbeddingService creates the embedding service selected by the
// config. Mock mode overrides the configured provider. Missing
// credentials surface as domain.ErrConfiguration before any network I/O.
func CreateEmbeddingService(ctx context.Context, cfg domain.Config) (driven.EmbeddingService, error) {
	if cfg.MockMode || cfg.Embedding.Provider == domain.ProviderMock {
		return mockembed.NewEmbeddingService(cfg.Embedding.Dimensions), nil
	}

	settings := cfg.Embedding
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider %q has no API key",
			domain.ErrConfiguration, settings.Provider)
	}

	switch settings.Provider {
	case domain.ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.ProviderGoogle:
		return googleembed.NewEmbeddingService(ctx, googleembed.Config{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.ProviderPinecone:
		return pineconeembed.NewEmbeddingService(pineconeembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.ProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not offer an embedding API, use openai, google or pinecone",
			domain.ErrConfiguration)

	default:
		return nil, fmt.Errorf("%w: unsupported embedding provider: %s",
			domain.ErrConfiguration, settings.Provider)
	}
}

// CreateCompletionService creates the completion service selected by the
// config. Mock mode overrides the configured provider. Missing
// credentials surface as domain.ErrConfiguration before any network I/O.
func CreateCompletionService(ctx context.Context, cfg domain.Config) (driven.CompletionService, error) {
	if cfg.MockMode || cfg.LLM.Provider == domain.ProviderMock {
		return mockllm.NewCompletionService(), nil
	}

	settings := cfg.LLM
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: completion provider %q has no API key",
			domain.ErrConfiguration, settings.Provider)
	}

	switch settings.Provider {
	case domain.ProviderOpenAI:
		return openaillm.NewCompletionService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.ProviderAnthropic:
		return anthropicllm.NewCompletionService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.ProviderGoogle:
		return googlellm.NewCompletionService(ctx, googlellm.Config{
			APIKey: settings.APIKey,
			Model:  settings.Model,
		})

	case domain.ProviderPinecone:
		return nil, fmt.Errorf("%w: pinecone does not offer a chat API, use openai, anthropic or google",
			domain.ErrConfiguration)

	default:
		return nil, fmt.Errorf("%w: unsupported completion provider: %s",
			domain.ErrConfiguration, settings.Provider)
	}
}
