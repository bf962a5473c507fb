// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/packup/packup/internal/logging"
)

func startPathWatcher(t *testing.T, paths ...string) (*PathWatcher, <-chan error) {
	t.Helper()

	w, err := NewPathWatcher(paths, logging.Discard())
	if err != nil {
		t.Fatalf("NewPathWatcher() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	return w, errCh
}

func nextEvent(t *testing.T, w *PathWatcher) FileEvent {
	t.Helper()

	select {
	case ev, ok := <-w.Events():
		if !ok {
			t.Fatal("event channel closed")
		}
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return FileEvent{}
}

func TestPathWatcherAdd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "package.json")
	w, _ := startPathWatcher(t, target)

	// Unwatched siblings are filtered out.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	ev := nextEvent(t, w)
	if ev.Kind != EventAdd || ev.Path != target {
		t.Errorf("event = %v, want add %s", ev, target)
	}
}

func TestPathWatcherChangeAndUnlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "packup.config.toml")
	if err := os.WriteFile(target, []byte("minify = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, _ := startPathWatcher(t, target)

	if err := os.WriteFile(target, []byte("minify = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if ev := nextEvent(t, w); ev.Kind != EventChange || ev.Path != target {
		t.Errorf("event = %v, want change %s", ev, target)
	}

	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	for {
		ev := nextEvent(t, w)
		if ev.Kind == EventChange {
			continue
		}
		if ev.Kind != EventUnlink || ev.Path != target {
			t.Errorf("event = %v, want unlink %s", ev, target)
		}
		break
	}
}

func TestPathWatcherAddDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "config")
	w, _ := startPathWatcher(t, target)

	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if ev := nextEvent(t, w); ev.Kind != EventAddDir {
		t.Errorf("event = %v, want addDir", ev)
	}

	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}
	if ev := nextEvent(t, w); ev.Kind != EventUnlinkDir {
		t.Errorf("event = %v, want unlinkDir", ev)
	}
}

func TestPathWatcherRunOnce(t *testing.T) {
	t.Parallel()

	w, err := NewPathWatcher([]string{filepath.Join(t.TempDir(), "package.json")}, logging.Discard())
	if err != nil {
		t.Fatalf("NewPathWatcher() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run() on cancelled context = %v, want nil", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() still open after Run returned")
	}
	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
}

func TestNewPathWatcherMissingDir(t *testing.T) {
	t.Parallel()

	_, err := NewPathWatcher([]string{filepath.Join(t.TempDir(), "missing", "package.json")}, logging.Discard())
	if err == nil {
		t.Fatal("NewPathWatcher() expected error for a missing parent directory")
	}
}
