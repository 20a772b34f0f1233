package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

func TestLoadFirstRunDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"docs", "src/pages"}, cfg.Roots)
	assert.Equal(t, ".", cfg.SiteDir)
	assert.Equal(t, domain.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.Equal(t, domain.DefaultMaxChunkSize, cfg.Chunking.MaxChunkSize)
	assert.Equal(t, domain.DefaultTopK, cfg.Retrieval.TopK)
	assert.InDelta(t, domain.DefaultSimilarityThreshold, cfg.Retrieval.SimilarityThreshold, 1e-9)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.SiteDir = "/srv/docs-site"
	cfg.Roots = []string{"content"}
	cfg.LLM.Provider = domain.ProviderAnthropic
	cfg.LLM.APIKey = "sk-ant-test"
	cfg.LLM.Model = "claude-3-5-haiku-latest"
	cfg.Embedding.Provider = domain.ProviderGoogle
	cfg.Embedding.APIKey = "g-test"
	cfg.Embedding.Model = "text-embedding-004"
	cfg.Embedding.Dimensions = 768
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/docs-site", loaded.SiteDir)
	assert.Equal(t, []string{"content"}, loaded.Roots)
	assert.Equal(t, domain.ProviderAnthropic, loaded.LLM.Provider)
	assert.Equal(t, "sk-ant-test", loaded.LLM.APIKey)
	assert.Equal(t, domain.ProviderGoogle, loaded.Embedding.Provider)
	assert.Equal(t, 768, loaded.Embedding.Dimensions)
}

func TestEnvironmentKeyFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "sk-from-env", cfg.Embedding.APIKey)
}

func TestFileKeyWinsOverEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	cfg := domain.DefaultConfig()
	cfg.LLM.APIKey = "sk-from-file"
	cfg.Embedding.APIKey = "sk-from-file"
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-file", loaded.LLM.APIKey)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nprovider = \"watson\"\n"), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestConfigFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(domain.DefaultConfig()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
