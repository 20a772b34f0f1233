package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE:  runConfigPath,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [provider]",
	Short: "Store an API key for a provider",
	Long: `Prompts for the provider's API key without echoing it and stores it
in the config file. Providers: openai, anthropic, google, pinecone.`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigSetKey,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetKeyCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, store, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Printf("Config file:   %s\n", store.Path())
	cmd.Printf("Site dir:      %s\n", cfg.SiteDir)
	cmd.Printf("Content roots: %s\n", strings.Join(cfg.Roots, ", "))
	cmd.Printf("LLM:           %s (%s, key %s)\n",
		cfg.LLM.Provider, cfg.LLM.Model, maskKey(cfg.LLM.APIKey))
	cmd.Printf("Embedding:     %s (%s, %d dims, key %s)\n",
		cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions,
		maskKey(cfg.Embedding.APIKey))
	cmd.Printf("Chunking:      max %d chars\n", cfg.Chunking.MaxChunkSize)
	cmd.Printf("Retrieval:     top %d, threshold %.2f\n",
		cfg.Retrieval.TopK, cfg.Retrieval.SimilarityThreshold)
	if cfg.MockMode {
		cmd.Println("Mock mode:     enabled")
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	_, store, err := loadConfig()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	provider := domain.ProviderKind(args[0])
	if !provider.Valid() || provider == domain.ProviderMock {
		return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, args[0])
	}

	cfg, store, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Printf("API key for %s: ", provider)
	key, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return fmt.Errorf("read key: %w", err)
	}
	if len(key) == 0 {
		return fmt.Errorf("%w: empty key", domain.ErrInvalidInput)
	}

	if cfg.LLM.Provider == provider {
		cfg.LLM.APIKey = string(key)
	}
	if cfg.Embedding.Provider == provider {
		cfg.Embedding.APIKey = string(key)
	}
	if cfg.LLM.Provider != provider && cfg.Embedding.Provider != provider {
		// Provider not selected anywhere yet: make it the LLM provider.
		cfg.LLM.Provider = provider
		cfg.LLM.APIKey = string(key)
		cfg.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if err := store.Save(cfg); err != nil {
		return err
	}
	cmd.Printf("Saved key for %s to %s\n", provider, store.Path())
	return nil
}

// maskKey renders a key for display without revealing it.
func maskKey(key string) string {
	if key == "" {
		return "unset"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
