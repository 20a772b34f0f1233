package driven

import (
	"context"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
)

// ArtifactStore persists the build outputs: the embeddings corpus consumed
// by retrieval and the content audit report. Backed by JSON files in the
// site's data directory.
type ArtifactStore interface {
	// SaveChat persists the embeddings artifact.
	SaveChat(ctx context.Context, artifact *domain.ChatArtifact) error

	// LoadChat retrieves the embeddings artifact.
	// Returns domain.ErrNoCorpus if none has been built.
	LoadChat(ctx context.Context) (*domain.ChatArtifact, error)

	// SaveAudit persists the audit report.
	SaveAudit(ctx context.Context, report *domain.AuditReport) error

	// LoadAudit retrieves the audit report.
	// Returns domain.ErrNotFound if none has been built.
	LoadAudit(ctx context.Context) (*domain.AuditReport, error)
}
