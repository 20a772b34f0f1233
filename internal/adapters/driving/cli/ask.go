package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/docuchat-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuchat-cli/internal/core/services"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question about the documentation",
	Long: `Answers one question grounded in the indexed documentation and
streams the reply to stdout. Run 'docuchat index' first to build the
corpus; without one the assistant answers unaided.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	retriever, embedder, err := newRetriever(ctx, cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	completer, err := ai.CreateCompletionService(ctx, cfg)
	if err != nil {
		return err
	}
	defer completer.Close()

	// One-shot: the session is ephemeral.
	chat := services.NewChatService(retriever, completer, memory.NewSessionStore())

	err = chat.Send(ctx, args[0], func(fragment string) {
		cmd.Print(fragment)
	})
	cmd.Println()
	return err
}
