// Package watcher monitors the content directory and triggers debounced
// reloads when markdown sources change on disk.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/esgboard/internal/logfields"
)

// ReloadFunc is invoked after the debounce window when content changed.
type ReloadFunc func(ctx context.Context) error

// Watcher monitors a content directory tree for markdown changes.
type Watcher struct {
	dir          string
	reload       ReloadFunc
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	reloadChan   chan struct{}
	debounceTime time.Duration
	stopped      bool
}

// New creates a watcher over dir that calls reload after changes settle.
func New(dir string, reload ReloadFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve content directory: %w", err)
	}

	return &Watcher{
		dir:          absDir,
		reload:       reload,
		watcher:      fsw,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		debounceTime: 2 * time.Second,
	}, nil
}

// SetDebounce overrides the debounce window. Must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounceTime = d
}

// Start registers the directory tree and begins the watch loops.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Watch every subdirectory; fsnotify does not recurse on its own.
	err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.watcher.Add(path)
	})
	if err != nil {
		return fmt.Errorf("failed to watch content directory %s: %w", w.dir, err)
	}

	slog.Info("Starting content watcher", logfields.Path(w.dir))

	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)

	return nil
}

// Stop shuts down the watcher and its goroutines.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true

	slog.Info("Stopping content watcher")
	close(w.stopChan)

	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// A new directory must be added to the watch set before
			// events inside it can be observed.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}

			if !relevant(event) {
				continue
			}

			slog.Debug("Content change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			w.triggerReload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	var reloadTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return
		case <-w.stopChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return
		case <-w.reloadChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(w.debounceTime, func() {
				if err := w.reload(ctx); err != nil {
					slog.Error("Failed to reload content", logfields.Error(err))
				}
			})
		}
	}
}

func (w *Watcher) triggerReload() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
		// Reload already pending.
	}
}

// relevant reports whether the event should trigger a content reload.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	// Directory events carry no extension; markdown files do.
	return strings.EqualFold(filepath.Ext(name), ".md") || filepath.Ext(name) == ""
}
