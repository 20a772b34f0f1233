// Package mock provides a deterministic, network-free embedding service
// for offline development and testing.
package mock

import (
	"context"

	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions matches text-embedding-3-small.
const DefaultDimensions = 1536

// EmbeddingService derives a seeded pseudo-random vector from a stable
// hash of each input text. The same text always produces a bit-identical
// vector regardless of call order or wall-clock time.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a mock embedding service.
// Non-positive dimensions fall back to the default.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a deterministic vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	return s.vector(text), nil
}

// EmbedBatch generates deterministic embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = s.vector(text)
	}
	return embeddings, nil
}

// vector produces the seeded pseudo-random embedding, values in [-1, 1).
func (s *EmbeddingService) vector(text string) []float32 {
	rng := newSeededRand(hashText(text))
	vec := make([]float32, s.dimensions)
	for i := range vec {
		vec[i] = float32(rng.next()*2 - 1)
	}
	return vec
}

// hashText computes a stable non-negative 32-bit hash of the text.
func hashText(text string) int32 {
	var hash int32
	for _, r := range text {
		hash = (hash << 5) - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	return hash
}

// seededRand is a small linear congruential generator. Not suitable for
// anything but reproducible test vectors.
type seededRand struct {
	seed int32
}

func newSeededRand(seed int32) *seededRand {
	return &seededRand{seed: seed}
}

// next returns the next value in [0, 1).
func (r *seededRand) next() float64 {
	r.seed = (r.seed*9301 + 49297) % 233280
	if r.seed < 0 {
		r.seed += 233280
	}
	return float64(r.seed) / 233280
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "mock-embedding"
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
