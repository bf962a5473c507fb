// SPDX-License-Identifier: MPL-2.0

// Package configset folds config file events into snapshots of the set of
// config files that currently exist.
package configset

import (
	"context"
	"path/filepath"
	"slices"

	"github.com/packup/packup/internal/logging"
	"github.com/packup/packup/internal/watch"
)

type (
	// Snapshot is one immutable view of the config file set. Paths are
	// absolute, in insertion order, without duplicates. Revision identifies
	// the snapshot: two snapshots with the same membership but different
	// revisions are distinct and both drive a resolution.
	Snapshot struct {
		Paths    []string
		Revision uint64
	}

	// Tracker owns the current config file set. It is not safe for
	// concurrent use; Run confines it to one goroutine.
	Tracker struct {
		cwd     string
		current Snapshot
		logger  *logging.Logger
	}
)

// Contains reports whether path is a member of the snapshot.
func (s Snapshot) Contains(path string) bool {
	return slices.Contains(s.Paths, path)
}

// Rel returns the member paths relative to dir, falling back to the
// absolute path when no relative form exists.
func (s Snapshot) Rel(dir string) []string {
	out := make([]string, len(s.Paths))
	for i, p := range s.Paths {
		out[i] = relPath(dir, p)
	}
	return out
}

// NewTracker creates a tracker whose initial snapshot is every candidate
// resolved against cwd, whether or not it exists on disk.
func NewTracker(cwd string, candidates []string, logger *logging.Logger) *Tracker {
	paths := make([]string, 0, len(candidates))
	for _, c := range candidates {
		p := c
		if !filepath.IsAbs(p) {
			p = filepath.Join(cwd, p)
		}
		p = filepath.Clean(p)
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}
	return &Tracker{
		cwd:     cwd,
		current: Snapshot{Paths: paths, Revision: 1},
		logger:  logger,
	}
}

// Current returns the latest snapshot.
func (t *Tracker) Current() Snapshot {
	return t.current
}

// Apply folds one event into the set. It returns the resulting snapshot and
// whether it differs from the previous one.
func (t *Tracker) Apply(ev watch.FileEvent) (Snapshot, bool) {
	prev := t.current
	var next []string

	switch ev.Kind {
	case watch.EventAdd:
		if prev.Contains(ev.Path) {
			return prev, false
		}
		t.logger.Debug("config file added", "path", relPath(t.cwd, ev.Path))
		next = append(slices.Clone(prev.Paths), ev.Path)

	case watch.EventUnlink:
		if !prev.Contains(ev.Path) {
			return prev, false
		}
		t.logger.Debug("config file removed", "path", relPath(t.cwd, ev.Path))
		next = slices.DeleteFunc(slices.Clone(prev.Paths), func(p string) bool { return p == ev.Path })

	case watch.EventChange:
		t.logger.Separator()
		t.logger.Info(relPath(t.cwd, ev.Path) + " changed")
		next = slices.Clone(prev.Paths)

	default:
		return prev, false
	}

	t.current = Snapshot{Paths: next, Revision: prev.Revision + 1}
	return t.current, true
}

// Run emits the current snapshot, then one snapshot per distinct change
// folded from events. The returned channel is closed when events is closed
// or ctx is done.
func (t *Tracker) Run(ctx context.Context, events <-chan watch.FileEvent) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)

		send := func(s Snapshot) bool {
			select {
			case out <- s:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !send(t.current) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if snap, changed := t.Apply(ev); changed && !send(snap) {
					return
				}
			}
		}
	}()
	return out
}

func relPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}
