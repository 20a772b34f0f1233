package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat-cli/internal/adapters/driven/ai"
	configfile "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docuchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docuchat-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/docuchat-cli/internal/core/services"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open an interactive chat over the documentation",
	Long: `Launches the interactive terminal chat. Sessions persist between
runs and can be switched or deleted from within the UI.

Controls:
  Enter      - Send message
  Ctrl+N     - New session
  Ctrl+O     - Next session
  Ctrl+D     - Delete current session
  Esc/Ctrl+C - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n%s\n", r, debug.Stack())
		}
	}()

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

	sessionDir := configDir
	if sessionDir == "" {
		if sessionDir, err = configfile.DefaultDir(); err != nil {
			return err
		}
	}
	sessions, err := sqlite.NewSessionStore(sessionDir)
	if err != nil {
		return err
	}
	defer sessions.Close()

	chat := services.NewChatService(retriever, completer, sessions)

	app := tui.NewApp(chat)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
