package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces bursts of filesystem events (editors often
// write, chmod and rename in quick succession) into a single reload.
const reloadDebounce = 250 * time.Millisecond

// Watcher reloads a store when its messages directory changes.
// It uses fsnotify for efficient file change detection.
type Watcher struct {
	store   *Store
	watcher *fsnotify.Watcher
	mu      sync.Mutex
	closed  bool
}

// Reload describes one completed reload of a watched store. Err is
// non-nil when the changed directory failed to load; the store then
// keeps serving its previous content.
type Reload struct {
	Versions int
	Err      error
}

// NewWatcher creates a Watcher for the given store. The store must be
// backed by an on-disk directory.
func NewWatcher(s *Store) (*Watcher, error) {
	if s.Dir() == "" {
		return nil, fmt.Errorf("cannot watch a read-only store")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if err := fw.Add(s.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", s.Dir(), err)
	}

	return &Watcher{store: s, watcher: fw}, nil
}

// Watch reloads the store whenever note files change and reports each
// reload on the returned channel. The channel is closed when the
// context is cancelled or Close is called.
func (w *Watcher) Watch(ctx context.Context) <-chan Reload {
	reloads := make(chan Reload, 1)
	go w.watchLoop(ctx, reloads)
	return reloads
}

func (w *Watcher) watchLoop(ctx context.Context, reloads chan<- Reload) {
	defer close(reloads)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case reloads <- Reload{Err: fmt.Errorf("watching messages directory: %w", err)}:
			case <-ctx.Done():
				return
			}

		case <-pending:
			pending = nil
			err := w.store.Load(ctx)
			select {
			case reloads <- Reload{Versions: w.store.VersionCount(), Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// relevantEvent filters events down to note files and the index.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := event.Name
	return strings.HasSuffix(name, ".txt") || strings.HasSuffix(name, IndexFile)
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}
