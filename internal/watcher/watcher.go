// Package watcher provides file system watching with debouncing for registry
// inputs.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors registry manifests and header directories and signals when
// any of them changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]bool // watched files
	dirs      []string        // directories whose headers are watched
	debounce  time.Duration
	logger    *zap.Logger
	onChange  chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	stopOnce  sync.Once
	started   atomic.Bool
}

// Config holds watcher configuration options.
type Config struct {
	// Paths are files or directories. A directory is watched for changes to
	// the .h files directly inside it.
	Paths    []string
	Debounce time.Duration
	Logger   *zap.Logger
}

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// New creates a new watcher.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("watcher: no paths to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsw,
		files:     make(map[string]bool),
		debounce:  cfg.Debounce,
		logger:    cfg.Logger,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if w.logger == nil {
		w.logger = zap.NewNop()
	}

	for _, p := range cfg.Paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return w, nil
}

// add watches p. Files are watched through their parent directory so that
// editors replacing the file by rename keep being observed.
func (w *Watcher) add(p string) error {
	p = filepath.Clean(p)

	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("watching %s: %w", p, err)
	}

	dir := p
	if info.IsDir() {
		if !slices.Contains(w.dirs, p) {
			w.dirs = append(w.dirs, p)
		}
	} else {
		w.files[p] = true
		dir = filepath.Dir(p)
	}

	if slices.Contains(w.fsWatcher.WatchList(), dir) {
		return nil
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	return nil
}

// Start begins watching. The returned channel receives a signal after each
// burst of relevant changes. Watching ends when ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) <-chan struct{} {
	if w.started.CompareAndSwap(false, true) {
		go w.loop(ctx)
	}

	return w.onChange
}

// Stop terminates the watcher, waits for its goroutine and releases
// resources. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error

	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})

	if w.started.Load() {
		<-w.stopped
	}

	return err
}

// loop processes file system events with debouncing.
func (w *Watcher) loop(ctx context.Context) {
	defer close(w.stopped)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}

			w.logger.Debug("change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			// Non-blocking send: a pending signal already covers this change.
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}

			w.logger.Warn("watch error", zap.Error(err))

		case <-ctx.Done():
			return

		case <-w.done:
			return
		}
	}
}

// isRelevantEvent checks if the event should trigger a regeneration.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}

	name := filepath.Clean(event.Name)
	if w.files[name] {
		return true
	}

	if !strings.HasSuffix(name, ".h") {
		return false
	}

	return slices.Contains(w.dirs, filepath.Dir(name))
}
