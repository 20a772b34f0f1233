// Package file provides a TOML-backed configuration store with
// environment-variable fallback for provider credentials.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigFileName is the configuration file inside the config directory.
const ConfigFileName = "config.toml"

// fileConfig is the TOML document shape. Kept separate from domain.Config
// so the on-disk format can evolve independently of the core types.
type fileConfig struct {
	Roots    []string `toml:"roots,omitempty"`
	SiteDir  string   `toml:"site_dir,omitempty"`
	MockMode bool     `toml:"mock_mode,omitempty"`

	LLM struct {
		Provider string `toml:"provider,omitempty"`
		APIKey   string `toml:"api_key,omitempty"`
		Model    string `toml:"model,omitempty"`
		BaseURL  string `toml:"base_url,omitempty"`
	} `toml:"llm,omitempty"`

	Embedding struct {
		Provider   string `toml:"provider,omitempty"`
		APIKey     string `toml:"api_key,omitempty"`
		Model      string `toml:"model,omitempty"`
		BaseURL    string `toml:"base_url,omitempty"`
		Dimensions int    `toml:"dimensions,omitempty"`
	} `toml:"embedding,omitempty"`

	Chunking struct {
		MaxChunkSize int `toml:"max_chunk_size,omitempty"`
		Overlap      int `toml:"overlap,omitempty"`
	} `toml:"chunking,omitempty"`

	Retrieval struct {
		TopK                int     `toml:"top_k,omitempty"`
		SimilarityThreshold float64 `toml:"similarity_threshold,omitempty"`
	} `toml:"retrieval,omitempty"`
}

// ConfigStore is a TOML-file implementation of driven.ConfigStore.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// DefaultDir returns the default configuration directory, ~/.docuchat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".docuchat"), nil
}

// NewConfigStore creates a TOML config store under configDir.
// If configDir is empty, defaults to ~/.docuchat. A .env file in the
// working directory, when present, seeds provider credentials.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		var err error
		configDir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	// Best effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	return &ConfigStore{
		filePath: filepath.Join(configDir, ConfigFileName),
	}, nil
}

// Load reads the persisted configuration with defaults applied. API keys
// left blank in the file fall back to provider environment variables.
func (s *ConfigStore) Load() (domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fc fileConfig
	data, err := os.ReadFile(s.filePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: defaults plus whatever the environment provides.
	case err != nil:
		return domain.Config{}, fmt.Errorf("%w: read %s: %v", domain.ErrConfiguration, s.filePath, err)
	default:
		if err := toml.Unmarshal(data, &fc); err != nil {
			return domain.Config{}, fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, s.filePath, err)
		}
	}

	cfg := domain.Config{
		Roots:    fc.Roots,
		SiteDir:  fc.SiteDir,
		MockMode: fc.MockMode,
		LLM: domain.LLMSettings{
			Provider: domain.ProviderKind(fc.LLM.Provider),
			APIKey:   fc.LLM.APIKey,
			Model:    fc.LLM.Model,
			BaseURL:  fc.LLM.BaseURL,
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   domain.ProviderKind(fc.Embedding.Provider),
			APIKey:     fc.Embedding.APIKey,
			Model:      fc.Embedding.Model,
			BaseURL:    fc.Embedding.BaseURL,
			Dimensions: fc.Embedding.Dimensions,
		},
		Chunking: domain.ChunkingSettings{
			MaxChunkSize: fc.Chunking.MaxChunkSize,
			Overlap:      fc.Chunking.Overlap,
		},
		Retrieval: domain.RetrievalSettings{
			TopK:                fc.Retrieval.TopK,
			SimilarityThreshold: fc.Retrieval.SimilarityThreshold,
		},
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = domain.ProviderOpenAI
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = domain.ProviderOpenAI
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = keyFromEnv(cfg.LLM.Provider)
	}
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = keyFromEnv(cfg.Embedding.Provider)
	}

	cfg.ApplyDefaults()

	if !cfg.LLM.Provider.Valid() {
		return domain.Config{}, fmt.Errorf("%w: unknown llm provider %q", domain.ErrConfiguration, cfg.LLM.Provider)
	}
	if !cfg.Embedding.Provider.Valid() {
		return domain.Config{}, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrConfiguration, cfg.Embedding.Provider)
	}

	return cfg, nil
}

// Save writes the configuration back to the TOML file. Keys sourced from
// the environment are persisted only if they were set explicitly.
func (s *ConfigStore) Save(cfg domain.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var fc fileConfig
	fc.Roots = cfg.Roots
	fc.SiteDir = cfg.SiteDir
	fc.MockMode = cfg.MockMode
	fc.LLM.Provider = string(cfg.LLM.Provider)
	fc.LLM.APIKey = cfg.LLM.APIKey
	fc.LLM.Model = cfg.LLM.Model
	fc.LLM.BaseURL = cfg.LLM.BaseURL
	fc.Embedding.Provider = string(cfg.Embedding.Provider)
	fc.Embedding.APIKey = cfg.Embedding.APIKey
	fc.Embedding.Model = cfg.Embedding.Model
	fc.Embedding.BaseURL = cfg.Embedding.BaseURL
	fc.Embedding.Dimensions = cfg.Embedding.Dimensions
	fc.Chunking.MaxChunkSize = cfg.Chunking.MaxChunkSize
	fc.Chunking.Overlap = cfg.Chunking.Overlap
	fc.Retrieval.TopK = cfg.Retrieval.TopK
	fc.Retrieval.SimilarityThreshold = cfg.Retrieval.SimilarityThreshold

	data, err := toml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Config holds credentials: owner-only permissions.
	if err := os.WriteFile(s.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", s.filePath, err)
	}
	return nil
}

// Path identifies the backing file, for display to the user.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// keyFromEnv returns the conventional environment variable for a provider.
func keyFromEnv(provider domain.ProviderKind) string {
	switch provider {
	case domain.ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case domain.ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	case domain.ProviderGoogle:
		if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GEMINI_API_KEY")
	case domain.ProviderPinecone:
		return os.Getenv("PINECONE_API_KEY")
	default:
		return ""
	}
}
