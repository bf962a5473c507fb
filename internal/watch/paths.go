// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/packup/packup/internal/logging"
)

// ErrAlreadyRunning is returned when Run is called a second time.
var ErrAlreadyRunning = errors.New("watch: Run called more than once")

// PathWatcher reports events for a fixed list of paths. It watches the parent
// directory of every path and drops events for anything not in the list, so
// paths that do not exist yet are picked up when they are created.
//
// Only changes made after NewPathWatcher returns are reported. Run must be
// called exactly once; the OS watch handles are released when it returns.
type PathWatcher struct {
	fsw     *fsnotify.Watcher
	targets map[string]struct{}
	// known maps every target that currently exists to whether it is a directory.
	known   map[string]bool
	events  chan FileEvent
	logger  *logging.Logger
	started atomic.Bool
}

// NewPathWatcher starts watching the parent directories of paths. Relative
// paths are resolved against the process working directory.
func NewPathWatcher(paths []string, logger *logging.Logger) (*PathWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &PathWatcher{
		fsw:     fsw,
		targets: make(map[string]struct{}, len(paths)),
		known:   make(map[string]bool, len(paths)),
		events:  make(chan FileEvent),
		logger:  logger,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, absErr := filepath.Abs(p)
		if absErr != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("watch: resolve %q: %w", p, absErr)
		}
		w.targets[abs] = struct{}{}
		if info, statErr := os.Stat(abs); statErr == nil {
			w.known[abs] = info.IsDir()
		}

		dir := filepath.Dir(abs)
		if _, seen := dirs[dir]; seen {
			continue
		}
		dirs[dir] = struct{}{}
		if addErr := fsw.Add(dir); addErr != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("watch: add directory %q: %w", dir, addErr)
		}
	}

	return w, nil
}

// Events returns the event stream. It is closed when Run returns.
func (w *PathWatcher) Events() <-chan FileEvent {
	return w.events
}

// Run delivers events until ctx is cancelled or the underlying watcher fails.
// Cancellation is a clean stop and returns nil.
func (w *PathWatcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer close(w.events)
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Debug("watch: close fsnotify", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			fe, ok := w.translate(evt)
			if !ok {
				continue
			}
			w.logger.Debug("watch event", "event", fe.Kind, "path", fe.Path)
			select {
			case w.events <- fe:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "err", err)
		}
	}
}

// translate maps a raw fsnotify event onto a FileEvent for a watched path.
// Editors that save through a temp file and rename produce Create for a path
// that already exists; that is reported as a change.
func (w *PathWatcher) translate(evt fsnotify.Event) (FileEvent, bool) {
	path := filepath.Clean(evt.Name)
	if _, ok := w.targets[path]; !ok {
		return FileEvent{}, false
	}
	isDir, exists := w.known[path]

	switch {
	case evt.Has(fsnotify.Create), evt.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err != nil {
			// Gone again before we looked; a later Remove settles it.
			return FileEvent{}, false
		}
		w.known[path] = info.IsDir()
		switch {
		case info.IsDir() && exists:
			return FileEvent{}, false
		case info.IsDir():
			return FileEvent{Kind: EventAddDir, Path: path}, true
		case exists && !isDir:
			return FileEvent{Kind: EventChange, Path: path}, true
		default:
			return FileEvent{Kind: EventAdd, Path: path}, true
		}

	case evt.Has(fsnotify.Remove), evt.Has(fsnotify.Rename):
		if !exists {
			return FileEvent{}, false
		}
		if _, err := os.Lstat(path); err == nil {
			// Replaced in place by a rename onto the same name.
			return FileEvent{Kind: EventChange, Path: path}, !isDir
		}
		delete(w.known, path)
		if isDir {
			return FileEvent{Kind: EventUnlinkDir, Path: path}, true
		}
		return FileEvent{Kind: EventUnlink, Path: path}, true
	}

	return FileEvent{}, false
}
