// Package watch reports changes to files matching glob patterns below a
// directory tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrClosed is returned by Start when the underlying watcher shuts down
var ErrClosed = errors.New("watcher closed")

// Handler is called for every matching event
type Handler func(path string, op fsnotify.Op)

// Watcher watches directory trees for changes based on patterns
type Watcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	onChange Handler
	logger   zerolog.Logger

	// roots are the directories passed to AddDirectory
	roots []string
}

// New creates a watcher. Patterns match base names, or path suffixes when
// written as **/*.ext. Excludes match the base name of a file or of any
// directory above it.
func New(patterns, exclude []string, onChange Handler, logger zerolog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:  watcher,
		patterns: patterns,
		exclude:  exclude,
		onChange: onChange,
		logger:   logger.With().Str("component", "watcher").Logger(),
	}, nil
}

// AddDirectory recursively adds a directory to the watcher. Call it
// before Start.
func (w *Watcher) AddDirectory(dir string) error {
	w.roots = append(w.roots, filepath.Clean(dir))
	return w.addTree(dir)
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.excluded(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

// Start delivers events until ctx is done
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}

			if w.shouldWatch(event.Name) {
				w.onChange(event.Name, event.Op)
			}

			// New directories join the watch
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.excluded(info.Name()) {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
					}
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) excluded(name string) bool {
	for _, pattern := range w.exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// shouldWatch checks if a file should trigger a change event based on patterns
func (w *Watcher) shouldWatch(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(w.relative(path)), "/") {
		if part != "" && w.excluded(part) {
			return false
		}
	}

	base := filepath.Base(path)
	for _, pattern := range w.patterns {
		if suffix, ok := strings.CutPrefix(pattern, "**/"); ok {
			if matched, _ := filepath.Match(suffix, base); matched {
				return true
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// relative trims the watched root off path
func (w *Watcher) relative(path string) string {
	for _, root := range w.roots {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
