// Package file provides a JSON-file implementation of the artifact store.
// Artifacts live in the site's data directory so they deploy with the site.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docuchat-cli/internal/core/domain"
	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// Artifact file names inside the data directory.
const (
	ChatArtifactFile  = "embeddings.json"
	AuditArtifactFile = "audit.json"
)

// DefaultDataDir is the data directory relative to the site directory.
const DefaultDataDir = "data"

// ArtifactStore reads and writes build artifacts as JSON files.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates an artifact store rooted at the site's data
// directory. An empty dataDir defaults to siteDir/data.
func NewArtifactStore(siteDir, dataDir string) *ArtifactStore {
	if dataDir == "" {
		dataDir = filepath.Join(siteDir, DefaultDataDir)
	}
	return &ArtifactStore{dir: dataDir}
}

// Dir returns the data directory artifacts are stored in.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// SaveChat persists the embeddings artifact.
func (s *ArtifactStore) SaveChat(_ context.Context, artifact *domain.ChatArtifact) error {
	if artifact == nil {
		return domain.ErrInvalidInput
	}
	return s.write(ChatArtifactFile, artifact)
}

// LoadChat retrieves the embeddings artifact.
// Returns domain.ErrNoCorpus if none has been built.
func (s *ArtifactStore) LoadChat(_ context.Context) (*domain.ChatArtifact, error) {
	var artifact domain.ChatArtifact
	if err := s.read(ChatArtifactFile, &artifact); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no embeddings artifact at %s",
				domain.ErrNoCorpus, filepath.Join(s.dir, ChatArtifactFile))
		}
		return nil, err
	}
	return &artifact, nil
}

// SaveAudit persists the audit report.
func (s *ArtifactStore) SaveAudit(_ context.Context, report *domain.AuditReport) error {
	if report == nil {
		return domain.ErrInvalidInput
	}
	return s.write(AuditArtifactFile, report)
}

// LoadAudit retrieves the audit report.
// Returns domain.ErrNotFound if none has been built.
func (s *ArtifactStore) LoadAudit(_ context.Context) (*domain.AuditReport, error) {
	var report domain.AuditReport
	if err := s.read(AuditArtifactFile, &report); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no audit report at %s",
				domain.ErrNotFound, filepath.Join(s.dir, AuditArtifactFile))
		}
		return nil, err
	}
	return &report, nil
}

// write marshals v and writes it atomically via a temp file rename.
func (s *ArtifactStore) write(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// read unmarshals the named artifact into v.
func (s *ArtifactStore) read(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrParse, name, err)
	}
	return nil
}
