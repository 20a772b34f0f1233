package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetVerbose(false)
	})
	return &buf
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t)
	SetVerbose(false)

	Debug("hidden %d", 1)
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestLevelPrefixes(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Debug("loaded %d documents", 3)
	Info("indexing done")
	Warn("skipping file")

	out := buf.String()
	assert.Contains(t, out, "debug  loaded 3 documents\n")
	assert.Contains(t, out, "info   indexing done\n")
	assert.Contains(t, out, "warn   skipping file\n")
}

func TestSectionHeader(t *testing.T) {
	buf := capture(t)
	SetVerbose(true)

	Section("Content Load")

	assert.Contains(t, buf.String(), "── Content Load ")
}

func TestIsVerbose(t *testing.T) {
	capture(t)

	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}
