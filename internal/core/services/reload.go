package services

import "sync"

// ReloadNotifier fans out corpus-reload events to subscribers. The
// watcher publishes; retrieval caches and UIs subscribe. Subscribing
// returns an unsubscribe func so observers can detach cleanly.
type ReloadNotifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func()
}

// NewReloadNotifier creates an empty notifier.
func NewReloadNotifier() *ReloadNotifier {
	return &ReloadNotifier{subs: make(map[int]func())}
}

// Subscribe registers fn to run on every notification and returns an
// unsubscribe func. Unsubscribing twice is a no-op.
func (n *ReloadNotifier) Subscribe(fn func()) (unsubscribe func()) {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Notify invokes every subscriber on the caller's goroutine.
func (n *ReloadNotifier) Notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
