package domain

// IssueSeverity grades a content issue.
type IssueSeverity string

// Issue severities.
const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
	SeverityInfo    IssueSeverity = "info"
)

// Issue types reported by the audit.
const (
	IssueMissingMetadata = "missing-metadata"
	IssueEmptyContent    = "empty-content"
	IssueFormatting      = "formatting"
)

// ContentIssue is one content-quality finding for a file.
type ContentIssue struct {
	// Type categorises the issue.
	Type string `json:"type"`

	// Message describes the issue for display.
	Message string `json:"message"`

	// Severity grades the issue.
	Severity IssueSeverity `json:"severity"`
}

// AuditSummary aggregates issue counts across a tree.
type AuditSummary struct {
	// TotalFiles is the number of audited files.
	TotalFiles int `json:"totalFiles"`

	// TotalIssues is the number of issues across all files.
	TotalIssues int `json:"totalIssues"`

	// IssuesByType counts issues per issue type.
	IssuesByType map[string]int `json:"issuesByType"`
}

// AuditTree groups the audited content trees by root.
type AuditTree struct {
	// Docs is the tree under the docs root.
	Docs []*FileNode `json:"docs"`

	// Pages is the tree under the pages root.
	Pages []*FileNode `json:"pages"`

	// Summary aggregates both trees.
	Summary AuditSummary `json:"summary"`
}

// AuditReport is the persisted audit artifact.
type AuditReport struct {
	// Tree holds the audited trees and their summary.
	Tree AuditTree `json:"tree"`

	// Summary duplicates the tree summary for top-level consumers.
	Summary AuditSummary `json:"summary"`
}

// Summarise walks trees and aggregates file and issue counts.
func Summarise(trees ...[]*FileNode) AuditSummary {
	summary := AuditSummary{IssuesByType: make(map[string]int)}
	for _, roots := range trees {
		Walk(roots, func(n *FileNode) {
			if n.Type != NodeFile {
				return
			}
			summary.TotalFiles++
			if n.Content == nil {
				return
			}
			summary.TotalIssues += len(n.Content.Issues)
			for _, issue := range n.Content.Issues {
				summary.IssuesByType[issue.Type]++
			}
		})
	}
	return summary
}
