package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/wardentools/core/logging"
	"github.com/wardentools/core/util/pathutil"
)

// DefaultDebounce is the settle window applied to rules file changes before
// a reload is triggered.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a store when its rules file changes on disk. It watches
// the file's directory rather than the file itself, so editors that replace
// the file with a rename keep being observed.
type Watcher struct {
	store    *Store
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *logrus.Entry

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// NewWatcher creates a watcher that calls store.Reload after changes to the
// rules file at path settle for the debounce window. Pass the same expanded
// path the store's file source reads from.
func NewWatcher(store *Store, path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	cleaned := filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(cleaned)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		store:    store,
		path:     cleaned,
		debounce: debounce,
		watcher:  fsw,
		logger:   logging.NewLogger("rules-watcher"),
	}, nil
}

// Start blocks, dispatching debounced reloads until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.WithFields(logrus.Fields{
				"file": event.Name,
				"op":   event.Op.String(),
			}).Debug("Rules file event")
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Error("Rules watcher error")
		case <-ctx.Done():
			w.Close()
			return
		}
	}
}

// relevant keeps only events for the rules file itself. Removes and renames
// matter too: the reload they trigger fails, which is logged, and the
// recreate that usually follows triggers the next one.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	// Symlink- and case-tolerant comparison: event paths do not always
	// arrive spelled the way the rules path was configured.
	same, err := pathutil.ComparePaths(event.Name, w.path)
	if err != nil {
		return filepath.Clean(event.Name) == w.path
	}
	return same
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.fire)
		return
	}
	w.timer.Reset(w.debounce)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	if err := w.store.Reload(); err != nil {
		w.logger.WithError(err).Warn("Reload after file change failed, keeping last good rules")
	}
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	return w.watcher.Close()
}
