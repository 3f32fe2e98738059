package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of file events into one reload.
const DefaultDebounce = 300 * time.Millisecond

// FileWatcher calls a reload function when a configuration file changes.
// It watches the parent directory because atomic replacement swaps the
// file's inode.
type FileWatcher struct {
	path     string
	reload   func(ctx context.Context) error
	debounce time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewFileWatcher creates a watcher for path.
func NewFileWatcher(path string, reload func(ctx context.Context) error, logger *slog.Logger) *FileWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileWatcher{
		path:     filepath.Clean(path),
		reload:   reload,
		debounce: DefaultDebounce,
		logger:   logger,
	}
}

// WithDebounce overrides the debounce window.
func (w *FileWatcher) WithDebounce(d time.Duration) *FileWatcher {
	w.debounce = d
	return w
}

// Start begins watching. It returns once the watch is registered.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w.watcher = watcher
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.loop(ctx, watcher, w.done)

	w.logger.Info("watching lifecycle configuration", "path", w.path)
	return nil
}

// Stop ends watching and waits for the watch loop to exit.
func (w *FileWatcher) Stop() {
	w.mu.Lock()
	watcher, cancel, done := w.watcher, w.cancel, w.done
	w.watcher, w.cancel, w.done = nil, nil, nil
	w.mu.Unlock()

	if watcher == nil {
		return
	}
	cancel()
	_ = watcher.Close()
	<-done
}

func (w *FileWatcher) loop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("lifecycle configuration changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.reload(ctx); err != nil {
				w.logger.Error("automatic lifecycle reload failed", "error", err)
				continue
			}
			w.logger.Info("lifecycle configuration reloaded", "path", w.path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("lifecycle watcher error", "error", err)
		}
	}
}
