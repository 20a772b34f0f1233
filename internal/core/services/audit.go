package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat-cli/internal/logger"
	"github.com/custodia-labs/docuchat-cli/internal/normalisers/markdown"
)

// Ensure AuditService implements the interface.
var _ driving.Auditor = (*AuditService)(nil)

// Frontmatter fields every documentation page should carry.
var requiredFrontmatter = []string{"title", "description"}

// AuditService builds the content-quality audit report.
type AuditService struct {
	source driven.DocumentSource
	store  driven.ArtifactStore
}

// NewAuditService creates a new audit service.
func NewAuditService(source driven.DocumentSource, store driven.ArtifactStore) *AuditService {
	return &AuditService{source: source, store: store}
}

// Audit walks the content roots, checks every document for quality
// issues, and persists the report. The first configured root maps to the
// docs tree and the second to the pages tree; additional roots merge
// into docs.
func (s *AuditService) Audit(ctx context.Context) (*domain.AuditReport, error) {
	logger.Section("Content Audit")

	var docs, pages []*domain.FileNode
	for i, root := range s.source.Roots() {
		tree, err := s.auditRoot(ctx, root)
		if err != nil {
			return nil, fmt.Errorf("audit root %q: %w", root, err)
		}
		if i == 1 {
			pages = tree
		} else {
			docs = append(docs, tree...)
		}
	}

	summary := domain.Summarise(docs, pages)
	report := &domain.AuditReport{
		Tree: domain.AuditTree{
			Docs:    docs,
			Pages:   pages,
			Summary: summary,
		},
		Summary: summary,
	}
	logger.Info("Audited %d files, %d issues", summary.TotalFiles, summary.TotalIssues)

	if err := s.store.SaveAudit(ctx, report); err != nil {
		return nil, fmt.Errorf("save audit report: %w", err)
	}
	return report, nil
}

// auditRoot builds and populates the content tree for one root.
func (s *AuditService) auditRoot(ctx context.Context, root string) ([]*domain.FileNode, error) {
	paths, err := s.source.List(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	tree := domain.BuildTree(paths)
	for _, node := range domain.Files(tree) {
		raw, err := s.source.Read(ctx, root, node.Path)
		if err != nil {
			node.Content = &domain.FileContent{
				Issues: []domain.ContentIssue{{
					Type:     domain.IssueEmptyContent,
					Message:  fmt.Sprintf("could not read file: %v", err),
					Severity: domain.SeverityError,
				}},
			}
			continue
		}
		node.Content = inspect(string(raw))
	}
	return tree, nil
}

// inspect extracts a document's content and flags quality issues.
func inspect(raw string) *domain.FileContent {
	frontmatter, body := markdown.ParseFrontmatter(raw)
	content := &domain.FileContent{
		Metadata: frontmatter,
		RawText:  body,
	}

	for _, field := range requiredFrontmatter {
		if strings.TrimSpace(frontmatter[field]) == "" {
			content.Issues = append(content.Issues, domain.ContentIssue{
				Type:     domain.IssueMissingMetadata,
				Message:  fmt.Sprintf("missing frontmatter field %q", field),
				Severity: domain.SeverityWarning,
			})
		}
	}

	if strings.TrimSpace(markdown.Normalise(body)) == "" {
		content.Issues = append(content.Issues, domain.ContentIssue{
			Type:     domain.IssueEmptyContent,
			Message:  "document has no body content",
			Severity: domain.SeverityError,
		})
	}

	for _, issue := range formattingIssues(body) {
		content.Issues = append(content.Issues, issue)
	}
	return content
}

// formattingIssues flags mechanical formatting problems in the body.
func formattingIssues(body string) []domain.ContentIssue {
	var issues []domain.ContentIssue

	if strings.Contains(body, "```") && strings.Count(body, "```")%2 != 0 {
		issues = append(issues, domain.ContentIssue{
			Type:     domain.IssueFormatting,
			Message:  "unbalanced code fence",
			Severity: domain.SeverityWarning,
		})
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed != line && strings.TrimSpace(line) != "" {
			issues = append(issues, domain.ContentIssue{
				Type:     domain.IssueFormatting,
				Message:  "trailing whitespace",
				Severity: domain.SeverityInfo,
			})
			break
		}
	}
	return issues
}
