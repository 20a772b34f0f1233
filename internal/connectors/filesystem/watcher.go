package filesystem

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docuchat-cli/internal/logger"
)

// debounceWindow coalesces bursts of filesystem events into one reload.
const debounceWindow = 500 * time.Millisecond

// Watcher observes the connector's content roots and invokes a callback
// when documents change. Events are debounced so editors that write
// multiple times per save trigger a single reload.
type Watcher struct {
	connector *Connector
	fsw       *fsnotify.Watcher
	notify    func()
}

// NewWatcher creates a watcher over the connector's roots. The notify
// callback runs on the watcher goroutine after each debounced change.
func NewWatcher(connector *Connector, notify func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{connector: connector, fsw: fsw, notify: notify}

	for _, root := range connector.Roots() {
		if err := w.addRecursive(connector.RootDir(root)); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// addRecursive watches a directory and all its subdirectories.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Roots may not exist yet; watch what is there.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if p != dir && (skippedDirs[name] || name[0] == '.') {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}

// Run blocks processing events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Content change: %s %s", event.Op, event.Name)

			// New directories need watching before their files change.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}

			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.notify()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// relevant filters events down to indexed document types and directories.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op.Has(fsnotify.Chmod) {
		return false
	}
	ext := filepath.Ext(event.Name)
	if ext == "" {
		// Likely a directory.
		return true
	}
	return w.connector.extensions[ext]
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
