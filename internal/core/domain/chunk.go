package domain

import "time"

// ChunkMetadata identifies where a chunk came from.
type ChunkMetadata struct {
	// FilePath is the document's path relative to its content root.
	FilePath string `json:"filePath"`

	// Position is the ordinal position of the chunk within its file.
	// Chunks of one file are strictly ordered by Position.
	Position int `json:"position"`

	// Frontmatter carries the source document's frontmatter fields.
	Frontmatter map[string]string `json:"frontmatter,omitempty"`
}

// DocumentChunk is a bounded-size slice of a document's normalised text.
// It is the unit of retrieval. Immutable once created.
type DocumentChunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// Text is the chunk content, at most the configured max chunk size.
	Text string `json:"text"`

	// Metadata locates the chunk within the corpus.
	Metadata ChunkMetadata `json:"metadata"`
}

// EmbeddedChunk is a DocumentChunk with its vector representation.
// The vector dimensionality is fixed per embedding provider and model.
type EmbeddedChunk struct {
	DocumentChunk

	// Embedding is the fixed-length vector for semantic search.
	Embedding []float32 `json:"embedding"`
}

// ScoredChunk is a retrieval result.
type ScoredChunk struct {
	// Chunk is the matched corpus chunk.
	Chunk EmbeddedChunk `json:"chunk"`

	// Similarity is the cosine similarity to the query, in [-1, 1].
	Similarity float64 `json:"similarity"`
}

// ArtifactMetadata describes a built embeddings artifact.
type ArtifactMetadata struct {
	// TotalChunks is the number of chunks in the artifact.
	TotalChunks int `json:"totalChunks"`

	// LastUpdated is when the artifact was built. Serialised as RFC 3339.
	LastUpdated time.Time `json:"lastUpdated"`
}

// ChatArtifact is the persisted, queryable corpus produced by a content
// load. It is read-only after load and safe for concurrent retrieval.
type ChatArtifact struct {
	// Chunks is every embedded chunk across all content roots.
	Chunks []EmbeddedChunk `json:"chunks"`

	// Metadata summarises the build.
	Metadata ArtifactMetadata `json:"metadata"`
}
