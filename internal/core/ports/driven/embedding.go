package driven

import "context"

// EmbeddingService converts text into vector embeddings for semantic
// retrieval.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-*)
//   - Google (text-embedding-004)
//   - Pinecone inference (llama-text-embed-v2)
//   - Mock (deterministic, offline)
//
// Transport and auth failures are returned as errors wrapping
// domain.ErrTransport, never as silent zero vectors.
type EmbeddingService interface {
	// Embed generates a vector embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, one vector per
	// input in the same order. Implementations batch requests internally
	// to bound request size.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
