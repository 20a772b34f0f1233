package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockembed "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/embedding/mock"
	"github.com/custodia-labs/docuchat-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/postprocessors/chunker"
)

// writeDoc writes a markdown file under dir, creating parents.
func writeDoc(t *testing.T, dir, relPath, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestLoadBuildsArtifact(t *testing.T) {
	site := t.TempDir()
	writeDoc(t, site, "docs/intro.md", "---\ntitle: Intro\n---\nWelcome to the project.\n")
	writeDoc(t, site, "docs/usage.md", "---\ntitle: Usage\n---\nRun the binary to get started.\n")

	source := filesystem.New(site, []string{"docs"})
	store := &stubArtifactStore{}
	loader := NewLoaderService(source, mockembed.NewEmbeddingService(8), store, chunker.New())

	artifact, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, artifact.Chunks, 2)
	assert.Equal(t, 2, artifact.Metadata.TotalChunks)
	assert.False(t, artifact.Metadata.LastUpdated.IsZero())

	// Lexicographic path order, frontmatter carried through.
	assert.Equal(t, "intro.md", artifact.Chunks[0].Metadata.FilePath)
	assert.Equal(t, "Intro", artifact.Chunks[0].Metadata.Frontmatter["title"])
	assert.Equal(t, "usage.md", artifact.Chunks[1].Metadata.FilePath)
	assert.Equal(t, "Welcome to the project.", artifact.Chunks[0].Text)

	// Every chunk is embedded at the provider's dimensionality.
	for _, chunk := range artifact.Chunks {
		assert.Len(t, chunk.Embedding, 8)
	}

	// The artifact was persisted.
	assert.Same(t, artifact, store.chat)
}

func TestLoadChunkIDsAndPositions(t *testing.T) {
	site := t.TempDir()

	// Two paragraphs too large to share a chunk.
	var body string
	for i := 0; i < 2; i++ {
		para := make([]byte, 0, 700)
		for len(para) < 600 {
			para = append(para, []byte("words and more words ")...)
		}
		body += string(para) + "\n\n"
	}
	writeDoc(t, site, "docs/long.md", body)

	source := filesystem.New(site, []string{"docs"})
	store := &stubArtifactStore{}
	loader := NewLoaderService(source, mockembed.NewEmbeddingService(4), store, chunker.New())

	artifact, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, artifact.Chunks, 2)
	assert.Equal(t, "long.md-0", artifact.Chunks[0].ID)
	assert.Equal(t, 0, artifact.Chunks[0].Metadata.Position)
	assert.Equal(t, "long.md-1", artifact.Chunks[1].ID)
	assert.Equal(t, 1, artifact.Chunks[1].Metadata.Position)
}

func TestLoadSkipsEmptyDocuments(t *testing.T) {
	site := t.TempDir()
	writeDoc(t, site, "docs/empty.md", "---\ntitle: Nothing\n---\n\n")
	writeDoc(t, site, "docs/real.md", "Actual content here.\n")

	source := filesystem.New(site, []string{"docs"})
	loader := NewLoaderService(source, mockembed.NewEmbeddingService(4), &stubArtifactStore{}, nil)

	artifact, err := loader.Load(context.Background())

	require.NoError(t, err)
	require.Len(t, artifact.Chunks, 1)
	assert.Equal(t, "real.md", artifact.Chunks[0].Metadata.FilePath)
}

func TestLoadMissingRootYieldsEmptyArtifact(t *testing.T) {
	source := filesystem.New(t.TempDir(), []string{"docs"})
	store := &stubArtifactStore{}
	loader := NewLoaderService(source, mockembed.NewEmbeddingService(4), store, nil)

	artifact, err := loader.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, artifact.Chunks)
	assert.Zero(t, artifact.Metadata.TotalChunks)
}

func TestLoadNilEmbedderFailsFast(t *testing.T) {
	source := filesystem.New(t.TempDir(), []string{"docs"})
	loader := NewLoaderService(source, nil, &stubArtifactStore{}, nil)

	_, err := loader.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
