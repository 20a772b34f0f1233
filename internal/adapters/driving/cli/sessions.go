package cli

import (
	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/docuchat-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docuchat-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage persisted chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted chat sessions",
	RunE:  runSessionsList,
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all persisted chat sessions",
	RunE:  runSessionsClear,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// openSessionStore opens the session database in the config directory.
func openSessionStore() (*sqlite.SessionStore, error) {
	dir := configDir
	if dir == "" {
		var err error
		if dir, err = configfile.DefaultDir(); err != nil {
			return nil, err
		}
	}
	return sqlite.NewSessionStore(dir)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	store, err := openSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	state, err := store.Load()
	if err != nil {
		return err
	}
	if state == nil || len(state.Sessions) == 0 {
		cmd.Println("No sessions.")
		return nil
	}

	for _, sess := range state.Sessions {
		marker := " "
		if sess.ID == state.ActiveID {
			marker = "*"
		}
		cmd.Printf("%s %s  %-40s  %d messages  %s\n",
			marker, sess.ID[:8], sess.Title, len(sess.Messages),
			sess.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsClear(cmd *cobra.Command, _ []string) error {
	store, err := openSessionStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(domain.NewChatState()); err != nil {
		return err
	}
	cmd.Println("Sessions cleared.")
	return nil
}
