// Package logger provides verbose logging for the docuchat CLI.
// When verbose mode is enabled via the --verbose flag, pipeline progress
// is printed to stderr so users can follow indexing and retrieval.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// level grades a log line.
type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
)

// prefixes are fixed-width so log lines align.
var prefixes = map[level]string{
	levelDebug: "debug",
	levelInfo:  "info ",
	levelWarn:  "warn ",
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf prints one levelled line if verbose mode is enabled.
func logf(lvl level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "%s  %s\n", prefixes[lvl], fmt.Sprintf(format, args...))
}

// Debug prints a debug message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(levelDebug, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(levelInfo, format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(levelWarn, format, args...)
}

// Section prints a phase header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n── %s %s\n", name, strings.Repeat("─", max(0, 40-len(name))))
}
