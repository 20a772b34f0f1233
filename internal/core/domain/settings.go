package domain

// ProviderKind identifies an AI provider implementation.
type ProviderKind string

// Supported provider kinds.
const (
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderGoogle    ProviderKind = "google"
	ProviderPinecone  ProviderKind = "pinecone"
	ProviderMock      ProviderKind = "mock"
)

// Valid reports whether the kind is a known provider.
func (k ProviderKind) Valid() bool {
	switch k {
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle, ProviderPinecone, ProviderMock:
		return true
	default:
		return false
	}
}

// Pipeline defaults, matching the reference models' limits.
const (
	DefaultMaxChunkSize        = 1000
	DefaultChunkOverlap        = 200
	DefaultTopK                = 3
	DefaultSimilarityThreshold = 0.7
	DefaultEmbeddingBatchSize  = 20
	DefaultMockDimensions      = 1536
)

// DefaultLLMModels maps each completion provider to its default model.
func DefaultLLMModels() map[ProviderKind]string {
	return map[ProviderKind]string{
		ProviderOpenAI:    "gpt-4o-mini",
		ProviderAnthropic: "claude-3-5-haiku-latest",
		ProviderGoogle:    "gemini-1.5-flash",
	}
}

// DefaultEmbeddingModels maps each embedding provider to its default model.
func DefaultEmbeddingModels() map[ProviderKind]string {
	return map[ProviderKind]string{
		ProviderOpenAI:   "text-embedding-3-small",
		ProviderGoogle:   "text-embedding-004",
		ProviderPinecone: "llama-text-embed-v2",
	}
}

// EmbeddingDimensions maps known embedding models to their vector size.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		"text-embedding-004":     768,
		"llama-text-embed-v2":    1024,
	}
}

// LLMSettings configures the completion provider.
type LLMSettings struct {
	// Provider selects the implementation.
	Provider ProviderKind `json:"provider"`

	// APIKey authenticates with the provider.
	APIKey string `json:"apiKey"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `json:"baseUrl,omitempty"`
}

// IsConfigured reports whether the settings name a usable provider.
func (s LLMSettings) IsConfigured() bool {
	return s.Provider != "" && (s.Provider == ProviderMock || s.APIKey != "")
}

// EmbeddingSettings configures the embedding provider.
type EmbeddingSettings struct {
	// Provider selects the implementation.
	Provider ProviderKind `json:"provider"`

	// APIKey authenticates with the provider.
	APIKey string `json:"apiKey"`

	// Model overrides the provider's default model.
	Model string `json:"model,omitempty"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `json:"baseUrl,omitempty"`

	// Dimensions overrides the model's default vector size.
	Dimensions int `json:"dimensions,omitempty"`
}

// IsConfigured reports whether the settings name a usable provider.
func (s EmbeddingSettings) IsConfigured() bool {
	return s.Provider != "" && (s.Provider == ProviderMock || s.APIKey != "")
}

// ChunkingSettings bounds chunk construction.
type ChunkingSettings struct {
	// MaxChunkSize is the maximum chunk length in characters.
	MaxChunkSize int `json:"maxChunkSize"`

	// Overlap is reserved for overlap-based chunking strategies.
	// The boundary-preserving chunker does not apply it.
	Overlap int `json:"overlap"`
}

// RetrievalSettings tunes nearest-neighbour retrieval.
type RetrievalSettings struct {
	// TopK is the number of chunks returned per query.
	TopK int `json:"topK"`

	// SimilarityThreshold drops chunks scoring below it. Zero disables.
	SimilarityThreshold float64 `json:"similarityThreshold"`
}

// Config is the full configuration surface consumed by the core.
// Selected once at load time; immutable for the process lifetime.
type Config struct {
	// Roots are the content root directories, relative to SiteDir.
	Roots []string `json:"roots"`

	// SiteDir is the documentation site directory.
	SiteDir string `json:"siteDir"`

	// LLM configures the completion provider.
	LLM LLMSettings `json:"llmProvider"`

	// Embedding configures the embedding provider.
	Embedding EmbeddingSettings `json:"embeddingProvider"`

	// Chunking bounds chunk construction.
	Chunking ChunkingSettings `json:"chunking"`

	// Retrieval tunes nearest-neighbour retrieval.
	Retrieval RetrievalSettings `json:"retrieval"`

	// MockMode substitutes deterministic offline providers for both
	// embedding and completion, regardless of provider settings.
	MockMode bool `json:"mockMode"`
}

// DefaultConfig returns a config with every default applied.
func DefaultConfig() Config {
	cfg := Config{
		Roots:     []string{"docs", "src/pages"},
		SiteDir:   ".",
		LLM:       LLMSettings{Provider: ProviderOpenAI},
		Embedding: EmbeddingSettings{Provider: ProviderOpenAI},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with defaults. Provider models default
// per provider; unknown embedding models fall back to 1536 dimensions.
func (c *Config) ApplyDefaults() {
	if len(c.Roots) == 0 {
		c.Roots = []string{"docs", "src/pages"}
	}
	if c.SiteDir == "" {
		c.SiteDir = "."
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModels()[c.LLM.Provider]
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = DefaultEmbeddingModels()[c.Embedding.Provider]
	}
	if c.Embedding.Dimensions == 0 {
		if d, ok := EmbeddingDimensions()[c.Embedding.Model]; ok {
			c.Embedding.Dimensions = d
		} else {
			c.Embedding.Dimensions = DefaultMockDimensions
		}
	}
	if c.Chunking.MaxChunkSize == 0 {
		c.Chunking.MaxChunkSize = DefaultMaxChunkSize
	}
	if c.Chunking.Overlap == 0 {
		c.Chunking.Overlap = DefaultChunkOverlap
	}
	if c.Retrieval.TopK == 0 {
		c.Retrieval.TopK = DefaultTopK
	}
	if c.Retrieval.SimilarityThreshold == 0 {
		c.Retrieval.SimilarityThreshold = DefaultSimilarityThreshold
	}
}
