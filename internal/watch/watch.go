// Package watch reloads a policy document when it changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/debug"
)

// DefaultDebounce coalesces bursts of writes from editors.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a file for changes
type Watcher struct {
	file     string
	callback func() error
	debounce time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher that calls callback after file changes.
func NewWatcher(file string, callback func() error, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// The directory is watched so that atomic rename saves are seen.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		callback: callback,
		debounce: debounce,
		watcher:  watcher,
		done:     make(chan struct{}),
	}, nil
}

// WatchPolicy loads the policy document at path into m and reloads it on
// every change. A failed reload keeps the previous restrictions installed.
func WatchPolicy(m *policy.Manager, path string, debounce time.Duration) (*Watcher, error) {
	fs := afero.NewOsFs()
	return NewWatcher(path, func() error {
		if err := m.LoadFile(fs, path); err != nil {
			return err
		}
		debug.Info("policy reloaded", "file", path, "roles", len(m.Roles()))
		return nil
	}, debounce)
}

// File returns the absolute path being watched.
func (w *Watcher) File() string {
	return w.file
}

// Start runs the callback once and then watches in the background.
func (w *Watcher) Start() error {
	if err := w.callback(); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if p, err := filepath.Abs(event.Name); err != nil || p != w.file {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.callback(); err != nil {
				debug.Error("watch callback failed", "file", w.file, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Error("watch error", "file", w.file, "error", err)

		case <-w.done:
			timer.Stop()
			return
		}
	}
}

// Stop stops watching the file. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
