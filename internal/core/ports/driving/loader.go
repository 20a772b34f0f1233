package driving

import (
	"context"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

// ContentLoader builds the embeddings artifact from the content roots.
type ContentLoader interface {
	// Load enumerates documents, extracts and chunks their content,
	// embeds every chunk and persists the resulting artifact.
	Load(ctx context.Context) (*domain.ChatArtifact, error)
}

// Auditor builds the content-quality audit report.
type Auditor interface {
	// Audit walks the content roots and reports quality findings.
	Audit(ctx context.Context) (*domain.AuditReport, error)
}
