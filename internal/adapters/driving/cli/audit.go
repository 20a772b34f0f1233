package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/services"
)

var auditJSON bool

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit content quality across the content roots",
	Long: `Walks every markdown document under the content roots and reports
quality findings: missing frontmatter, empty pages and formatting
problems. The report is also written to the site's data directory.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "output the full report as JSON")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	auditor := services.NewAuditService(newConnector(cfg), newArtifactStore(cfg))
	report, err := auditor.Audit(cmd.Context())
	if err != nil {
		return err
	}

	if auditJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Audited %d files, %d issues\n", report.Summary.TotalFiles, report.Summary.TotalIssues)

	types := make([]string, 0, len(report.Summary.IssuesByType))
	for t := range report.Summary.IssuesByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		cmd.Printf("  %-18s %d\n", t, report.Summary.IssuesByType[t])
	}

	printIssues(cmd, report.Tree.Docs)
	printIssues(cmd, report.Tree.Pages)
	return nil
}

// printIssues lists per-file findings for one tree.
func printIssues(cmd *cobra.Command, roots []*domain.FileNode) {
	for _, node := range domain.Files(roots) {
		if node.Content == nil || len(node.Content.Issues) == 0 {
			continue
		}
		cmd.Printf("\n%s\n", node.Path)
		for _, issue := range node.Content.Issues {
			cmd.Printf("  [%s] %s\n", issue.Severity, issue.Message)
		}
	}
}
