package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat-cli/internal/connectors/filesystem"
	"github.com/custodia-labs/docuchat-cli/internal/core/services"
	"github.com/custodia-labs/docuchat-cli/internal/logger"
)

var indexWatch bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the embeddings corpus from the content roots",
	Long: `Reads every markdown document under the configured content roots,
normalises and chunks the text, embeds each chunk and writes the
embeddings artifact alongside a content audit report.

With --watch the command keeps running and rebuilds whenever content
changes, until interrupted.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "rebuild on content changes")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, embedder, err := newLoader(ctx, cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	connector := newConnector(cfg)
	auditor := services.NewAuditService(connector, newArtifactStore(cfg))

	build := func(ctx context.Context) error {
		artifact, err := loader.Load(ctx)
		if err != nil {
			return err
		}
		report, err := auditor.Audit(ctx)
		if err != nil {
			return err
		}
		cmd.Printf("Indexed %d chunks (%d files, %d issues)\n",
			artifact.Metadata.TotalChunks, report.Summary.TotalFiles, report.Summary.TotalIssues)
		return nil
	}

	if err := build(ctx); err != nil {
		return err
	}
	if !indexWatch {
		return nil
	}

	notifier := services.NewReloadNotifier()
	notifier.Subscribe(func() {
		if err := build(ctx); err != nil {
			logger.Warn("Rebuild failed: %v", err)
		}
	})

	watcher, err := filesystem.NewWatcher(connector, notifier.Notify)
	if err != nil {
		return err
	}
	defer watcher.Close()

	cmd.Println("Watching for content changes. Press Ctrl+C to stop.")
	if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
