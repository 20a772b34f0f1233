package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat-cli/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// RetrievalService finds corpus chunks most similar to a query by
// exhaustive cosine scan over the embeddings artifact. The artifact is
// loaded lazily on first use and cached for the process lifetime; a
// reload invalidates the cache.
type RetrievalService struct {
	embedder driven.EmbeddingService
	store    driven.ArtifactStore
	settings domain.RetrievalSettings

	mu       sync.Mutex
	artifact *domain.ChatArtifact
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	store driven.ArtifactStore,
	settings domain.RetrievalSettings,
) *RetrievalService {
	if settings.TopK <= 0 {
		settings.TopK = domain.DefaultTopK
	}
	return &RetrievalService{
		embedder: embedder,
		store:    store,
		settings: settings,
	}
}

// Invalidate drops the cached artifact so the next query reloads it.
func (s *RetrievalService) Invalidate() {
	s.mu.Lock()
	s.artifact = nil
	s.mu.Unlock()
}

// Retrieve embeds the query and returns the topK most similar chunks,
// ordered by descending cosine similarity with ties broken by corpus
// order. Chunks scoring below the similarity threshold are dropped.
// topK <= 0 selects the configured default.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, topK int) ([]domain.ScoredChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = s.settings.TopK
	}

	artifact, err := s.loadArtifact(ctx)
	if err != nil {
		return nil, err
	}
	if len(artifact.Chunks) == 0 {
		return nil, fmt.Errorf("%w: artifact contains no chunks", domain.ErrNoCorpus)
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scored := make([]domain.ScoredChunk, 0, len(artifact.Chunks))
	for _, chunk := range artifact.Chunks {
		sim, err := CosineSimilarity(queryVec, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("score chunk %s: %w", chunk.ID, err)
		}
		scored = append(scored, domain.ScoredChunk{Chunk: chunk, Similarity: sim})
	}

	// Stable sort keeps corpus order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	results := make([]domain.ScoredChunk, 0, topK)
	for _, sc := range scored {
		if len(results) == topK {
			break
		}
		if s.settings.SimilarityThreshold > 0 && sc.Similarity < s.settings.SimilarityThreshold {
			break
		}
		results = append(results, sc)
	}

	logger.Debug("Retrieved %d/%d chunks for query (topK=%d, threshold=%.2f)",
		len(results), len(scored), topK, s.settings.SimilarityThreshold)
	return results, nil
}

// loadArtifact returns the cached artifact, loading it on first use.
func (s *RetrievalService) loadArtifact(ctx context.Context) (*domain.ChatArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.artifact != nil {
		return s.artifact, nil
	}

	artifact, err := s.store.LoadChat(ctx)
	if err != nil {
		return nil, err
	}
	s.artifact = artifact
	return artifact, nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths indicate a provider/corpus mismatch and return
// domain.ErrConfiguration. A zero-magnitude vector scores zero.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: embedding dimensions differ: %d vs %d",
			domain.ErrConfiguration, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}
	if magA == 0 || magB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}
