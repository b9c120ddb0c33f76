package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// PromptWatcher reloads a prompt store when prompt files change on disk.
type PromptWatcher struct {
	store    driven.PromptStore
	dir      string
	watcher  *fsnotify.Watcher
	onReload func(name string)
}

// NewPromptWatcher watches dir for edits to *.txt prompt files.
// onReload, if non-nil, is called with the prompt name after each reload.
func NewPromptWatcher(store driven.PromptStore, dir string, onReload func(name string)) (*PromptWatcher, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &PromptWatcher{
		store:    store,
		dir:      dir,
		watcher:  w,
		onReload: onReload,
	}, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *PromptWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("prompt watcher: %w", err)
		}
	}
}

// handleEvent reloads the store for writes, creates, removes and renames
// of prompt files. Other files and chmod events are ignored.
func (w *PromptWatcher) handleEvent(ev fsnotify.Event) bool {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".txt" {
		return false
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}

	w.store.Reload()
	if w.onReload != nil {
		w.onReload(strings.TrimSuffix(base, ".txt"))
	}
	return true
}

// Close stops watching.
func (w *PromptWatcher) Close() error {
	return w.watcher.Close()
}
