package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, relPath, content string) {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestListReturnsMarkdownFiles(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "docs/intro.md", "intro")
	writeFile(t, site, "docs/guide/advanced.mdx", "advanced")
	writeFile(t, site, "docs/image.png", "binary")
	writeFile(t, site, "docs/notes.txt", "text")

	c := New(site, []string{"docs"})
	paths, err := c.List(context.Background(), "docs")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"intro.md", "guide/advanced.mdx"}, paths)
}

func TestListSkipsHiddenAndDependencyDirs(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "docs/keep.md", "keep")
	writeFile(t, site, "docs/.hidden/skip.md", "skip")
	writeFile(t, site, "docs/node_modules/pkg/readme.md", "skip")
	writeFile(t, site, "docs/build/out.md", "skip")
	writeFile(t, site, "docs/.dotfile.md", "skip")

	c := New(site, []string{"docs"})
	paths, err := c.List(context.Background(), "docs")

	require.NoError(t, err)
	assert.Equal(t, []string{"keep.md"}, paths)
}

func TestListMissingRoot(t *testing.T) {
	c := New(t.TempDir(), []string{"docs"})

	paths, err := c.List(context.Background(), "docs")

	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestListCustomExtensions(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "docs/page.markdown", "page")
	writeFile(t, site, "docs/page.md", "page")

	c := New(site, []string{"docs"}, WithExtensions([]string{".markdown"}))
	paths, err := c.List(context.Background(), "docs")

	require.NoError(t, err)
	assert.Equal(t, []string{"page.markdown"}, paths)
}

func TestReadReturnsContent(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "docs/intro.md", "# Intro\n")

	c := New(site, []string{"docs"})
	data, err := c.Read(context.Background(), "docs", "intro.md")

	require.NoError(t, err)
	assert.Equal(t, "# Intro\n", string(data))
}

func TestReadMissingFile(t *testing.T) {
	c := New(t.TempDir(), []string{"docs"})

	_, err := c.Read(context.Background(), "docs", "absent.md")

	assert.Error(t, err)
}
