// Package cli provides the docuchat command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/config/file"
	storagefile "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/docuchat-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat-cli/internal/core/services"
	"github.com/custodia-labs/docuchat-cli/internal/logger"
	"github.com/custodia-labs/docuchat-cli/internal/postprocessors/chunker"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	mockMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "docuchat",
	Short: "Chat with your documentation site",
	Long: `docuchat indexes a documentation site's markdown content into an
embeddings corpus and answers questions about it, grounded in the pages
most relevant to each query.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.docuchat)")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "use offline mock providers")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// loadConfig opens the config store and loads the effective configuration.
// The --mock flag forces mock providers regardless of configuration.
func loadConfig() (domain.Config, *configfile.ConfigStore, error) {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return domain.Config{}, nil, fmt.Errorf("open config store: %w", err)
	}

	cfg, err := store.Load()
	if err != nil {
		return domain.Config{}, nil, err
	}
	if mockMode {
		cfg.MockMode = true
	}
	return cfg, store, nil
}

// newConnector builds the filesystem document source from the config.
func newConnector(cfg domain.Config) *filesystem.Connector {
	return filesystem.New(cfg.SiteDir, cfg.Roots)
}

// newArtifactStore builds the JSON artifact store from the config.
func newArtifactStore(cfg domain.Config) *storagefile.ArtifactStore {
	return storagefile.NewArtifactStore(cfg.SiteDir, "")
}

// newLoader wires a content loader with the configured embedding provider.
func newLoader(ctx context.Context, cfg domain.Config) (*services.LoaderService, driven.EmbeddingService, error) {
	embedder, err := ai.CreateEmbeddingService(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	ck := chunker.New(chunker.WithMaxChunkSize(cfg.Chunking.MaxChunkSize))
	loader := services.NewLoaderService(newConnector(cfg), embedder, newArtifactStore(cfg), ck)
	return loader, embedder, nil
}

// newRetriever wires a retriever with the configured embedding provider.
func newRetriever(ctx context.Context, cfg domain.Config) (*services.RetrievalService, driven.EmbeddingService, error) {
	embedder, err := ai.CreateEmbeddingService(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return services.NewRetrievalService(embedder, newArtifactStore(cfg), cfg.Retrieval), embedder, nil
}
