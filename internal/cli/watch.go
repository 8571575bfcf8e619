package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/yildizm/MeetSum/internal/presenter"
)

// resultWatcher reloads a saved analysis whenever it changes on disk.
type resultWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// newResultWatcher starts watching path. The parent directory is watched so
// editors that replace the file on save are still followed.
func newResultWatcher(path string) (*resultWatcher, error) {
	if err := validateWatchFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid file path: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		cleanupWatcher(watcher)
		return nil, fmt.Errorf("failed to watch file: %w", err)
	}

	return &resultWatcher{path: abs, watcher: watcher}, nil
}

// Run calls onChange with every successfully decoded version of the file
// and onError for unreadable ones, until ctx is canceled.
func (w *resultWatcher) Run(ctx context.Context, onChange func(any), onError func(error)) error {
	defer cleanupWatcher(w.watcher)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			value, err := loadResultFile(w.path)
			if err != nil {
				onError(err)
				continue
			}
			onChange(value)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			onError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

// relevant reports whether event changed the watched file's content.
func (w *resultWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// loadResultFile reads and decodes a saved analysis.
func loadResultFile(path string) (any, error) {
	// #nosec G304 - path is validated by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	value, err := presenter.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return value, nil
}

// cleanupWatcher safely closes watcher with error logging
func cleanupWatcher(watcher *fsnotify.Watcher) {
	if err := watcher.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close watcher: %v\n", err)
	}
}

// validateWatchFilePath validates that a file path is safe to watch
func validateWatchFilePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	// Check for path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot watch directory, must be a file")
	}

	return nil
}
