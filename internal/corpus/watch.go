// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before a
// watched directory is re-read.
const DefaultDebounce = 500 * time.Millisecond

const changeOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watch calls onChange each time documents in dir matching patterns change,
// once per burst of events separated by debounce of quiet. It returns nil
// when ctx is cancelled. Errors from onChange are logged and watching
// continues.
func Watch(ctx context.Context, dir string, patterns []string, debounce time.Duration, logger *slog.Logger, onChange func(context.Context) error) error {
	if len(patterns) == 0 {
		patterns = DefaultInclude
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("watching proposals", "dir", dir, "debounce", debounce)

	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !isDocumentChange(ev, patterns) {
				continue
			}
			logger.Debug("proposal changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			if err := onChange(ctx); err != nil {
				logger.Error("re-analysis failed", "dir", dir, "error", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "dir", dir, "error", err)
		}
	}
}

// isDocumentChange reports whether ev touches a matching document in a way
// that can change the parse result. Chmod-only events are ignored.
func isDocumentChange(ev fsnotify.Event, patterns []string) bool {
	if ev.Op&changeOps == 0 {
		return false
	}
	return Matches(filepath.Base(ev.Name), patterns)
}
