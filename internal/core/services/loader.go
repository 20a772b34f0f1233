package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat-cli/internal/logger"
	"github.com/custodia-labs/docuchat-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/docuchat-cli/internal/postprocessors/chunker"
)

// Ensure LoaderService implements the interface.
var _ driving.ContentLoader = (*LoaderService)(nil)

// readConcurrency bounds parallel document reads per root.
const readConcurrency = 8

// LoaderService builds the embeddings artifact from the content roots.
type LoaderService struct {
	source   driven.DocumentSource
	embedder driven.EmbeddingService
	store    driven.ArtifactStore
	chunker  *chunker.Chunker
}

// NewLoaderService creates a new content loader.
func NewLoaderService(
	source driven.DocumentSource,
	embedder driven.EmbeddingService,
	store driven.ArtifactStore,
	ck *chunker.Chunker,
) *LoaderService {
	if ck == nil {
		ck = chunker.New()
	}
	return &LoaderService{
		source:   source,
		embedder: embedder,
		store:    store,
		chunker:  ck,
	}
}

// fileChunks holds one document's chunks before corpus assembly.
type fileChunks struct {
	path   string
	chunks []domain.DocumentChunk
}

// Load enumerates documents, extracts and chunks their content, embeds
// every chunk and persists the resulting artifact. Credentials are
// checked before any document is read so a misconfigured provider fails
// fast. Documents that cannot be read are skipped with a warning rather
// than failing the whole load.
func (s *LoaderService) Load(ctx context.Context) (*domain.ChatArtifact, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrConfiguration)
	}

	logger.Section("Content Load")
	logger.Info("Embedding model: %s (%d dimensions)", s.embedder.ModelName(), s.embedder.Dimensions())

	var corpus []domain.DocumentChunk
	for _, root := range s.source.Roots() {
		chunks, err := s.loadRoot(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("load root %q: %w", root, err)
		}
		corpus = append(corpus, chunks...)
	}
	logger.Info("Chunked %d chunks across %d roots", len(corpus), len(s.source.Roots()))

	texts := make([]string, len(corpus))
	for i, chunk := range corpus {
		texts[i] = chunk.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(embeddings) != len(corpus) {
		return nil, fmt.Errorf("%w: %d embeddings for %d chunks",
			domain.ErrTransport, len(embeddings), len(corpus))
	}

	embedded := make([]domain.EmbeddedChunk, len(corpus))
	for i, chunk := range corpus {
		embedded[i] = domain.EmbeddedChunk{
			DocumentChunk: chunk,
			Embedding:     embeddings[i],
		}
	}

	artifact := &domain.ChatArtifact{
		Chunks: embedded,
		Metadata: domain.ArtifactMetadata{
			TotalChunks: len(embedded),
			LastUpdated: time.Now().UTC(),
		},
	}

	if err := s.store.SaveChat(ctx, artifact); err != nil {
		return nil, fmt.Errorf("save artifact: %w", err)
	}
	logger.Info("Saved artifact with %d chunks", artifact.Metadata.TotalChunks)

	return artifact, nil
}

// loadRoot reads, normalises and chunks every document under one root.
// Documents are processed concurrently; the returned chunks preserve
// lexicographic path order and per-file position order.
func (s *LoaderService) loadRoot(ctx context.Context, root string) ([]domain.DocumentChunk, error) {
	paths, err := s.source.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	sort.Strings(paths)
	logger.Debug("Root %q: %d documents", root, len(paths))

	var mu sync.Mutex
	byPath := make(map[string][]domain.DocumentChunk, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)

	for _, relPath := range paths {
		g.Go(func() error {
			chunks, err := s.loadFile(gctx, root, relPath)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("Skipping %s: %v", relPath, err)
				return nil
			}
			mu.Lock()
			byPath[relPath] = chunks
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var chunks []domain.DocumentChunk
	for _, relPath := range paths {
		chunks = append(chunks, byPath[relPath]...)
	}
	return chunks, nil
}

// loadFile parses one document into positioned chunks.
func (s *LoaderService) loadFile(ctx context.Context, root, relPath string) ([]domain.DocumentChunk, error) {
	raw, err := s.source.Read(ctx, root, relPath)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	frontmatter, body := markdown.ParseFrontmatter(string(raw))
	text := markdown.Normalise(body)
	if strings.TrimSpace(text) == "" {
		logger.Debug("Empty after normalisation: %s", relPath)
		return nil, nil
	}

	pieces := s.chunker.Split(text)
	chunks := make([]domain.DocumentChunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = domain.DocumentChunk{
			ID:   fmt.Sprintf("%s-%d", relPath, i),
			Text: piece,
			Metadata: domain.ChunkMetadata{
				FilePath:    relPath,
				Position:    i,
				Frontmatter: frontmatter,
			},
		}
	}
	return chunks, nil
}
