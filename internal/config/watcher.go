package config

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Iron-Ham/padlog/internal/event"
)

// DefaultDebounce coalesces the burst of events editors produce on save.
const DefaultDebounce = 50 * time.Millisecond

// Watcher reports modifications to a single config file. It watches the
// file's directory so that atomic-rename saves are still seen.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	bus      *event.Bus

	mu       sync.Mutex
	onChange func(path string)

	started  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWatcher creates a watcher for path. bus may be nil.
func NewWatcher(path string, bus *event.Bus) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		debounce: DefaultDebounce,
		bus:      bus,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the function called after each debounced change.
func (w *Watcher) SetChangeCallback(cb func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = cb
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	if w.started.CompareAndSwap(false, true) {
		go w.watchLoop()
	}
}

// Stop stops the watcher and waits for the loop to exit. Safe to call more
// than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
	if w.started.Load() {
		<-w.done
	}
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	debounceTimer := time.NewTimer(0)
	<-debounceTimer.C
	pending := false

	for {
		select {
		case <-w.stopCh:
			debounceTimer.Stop()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounceTimer.Reset(w.debounce)

		case <-debounceTimer.C:
			if !pending {
				continue
			}
			pending = false
			w.notify()

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) notify() {
	w.mu.Lock()
	cb := w.onChange
	w.mu.Unlock()

	if cb != nil {
		cb(w.path)
	}
	if w.bus != nil {
		w.bus.Publish(event.NewConfigChangedEvent(w.path))
	}
}
