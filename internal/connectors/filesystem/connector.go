// Package filesystem provides a document source backed by the local
// filesystem, plus a change watcher for rebuild-on-edit workflows.
package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docuchat-cli/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.DocumentSource = (*Connector)(nil)

// DefaultExtensions are the document extensions indexed by default.
var DefaultExtensions = []string{".md", ".mdx"}

// Directories never descended into.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"build":        true,
	"dist":         true,
}

// Connector enumerates and reads markdown documents under a site
// directory's content roots.
type Connector struct {
	siteDir    string
	roots      []string
	extensions map[string]bool
}

// Option configures the connector.
type Option func(*Connector)

// WithExtensions overrides the indexed file extensions.
func WithExtensions(exts []string) Option {
	return func(c *Connector) {
		if len(exts) == 0 {
			return
		}
		c.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			c.extensions[ext] = true
		}
	}
}

// New creates a connector for the given site directory and content roots.
// Roots are relative to siteDir; roots that do not exist list as empty.
func New(siteDir string, roots []string, opts ...Option) *Connector {
	c := &Connector{
		siteDir:    siteDir,
		roots:      roots,
		extensions: make(map[string]bool, len(DefaultExtensions)),
	}
	for _, ext := range DefaultExtensions {
		c.extensions[ext] = true
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Roots returns the configured content roots.
func (c *Connector) Roots() []string {
	return c.roots
}

// RootDir returns the absolute directory of a content root.
func (c *Connector) RootDir(root string) string {
	return filepath.Join(c.siteDir, filepath.FromSlash(root))
}

// List returns matching document paths under a root, relative to that
// root and slash-separated. Hidden and dependency directories are skipped.
func (c *Connector) List(ctx context.Context, root string) ([]string, error) {
	dir := c.RootDir(root)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if p != dir && (strings.HasPrefix(name, ".") || skippedDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !c.extensions[filepath.Ext(name)] {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// Read returns the raw bytes of a document under a root.
func (c *Connector) Read(_ context.Context, root, relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(c.RootDir(root), filepath.FromSlash(relPath)))
}
