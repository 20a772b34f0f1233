package driving

import (
	"context"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

// Retriever finds the corpus chunks most similar to a query.
type Retriever interface {
	// Retrieve embeds the query and returns the topK most similar chunks,
	// ordered by descending cosine similarity with ties broken by corpus
	// order. topK <= 0 selects the configured default.
	Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error)
}
