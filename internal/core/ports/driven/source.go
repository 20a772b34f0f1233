package driven

import "context"

// DocumentSource enumerates and reads documents from content roots.
// Backed by the local filesystem.
type DocumentSource interface {
	// Roots returns the configured content roots, in configuration order.
	Roots() []string

	// List returns the matching document paths under a root, relative to
	// that root, slash-separated. Hidden and dependency directories are
	// excluded.
	List(ctx context.Context, root string) ([]string, error)

	// Read returns the raw bytes of a document.
	Read(ctx context.Context, root, relPath string) ([]byte, error)
}
