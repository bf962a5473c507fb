// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/tasks"
	"github.com/packup/packup/internal/testutil"
)

// generationHandler reports one success per task, then holds the task open
// until its generation is cancelled.
type generationHandler struct {
	mu        sync.Mutex
	started   map[uint64]int
	stopped   map[uint64]int
	successes int
}

func newGenerationHandler() *generationHandler {
	return &generationHandler{started: map[uint64]int{}, stopped: map[uint64]int{}}
}

func (h *generationHandler) Run(ctx context.Context, bc *buildctx.Context, task tasks.WatchTask) <-chan tasks.Result {
	gen := bc.Generation()
	h.mu.Lock()
	h.started[gen]++
	h.mu.Unlock()

	out := make(chan tasks.Result)
	go func() {
		defer close(out)
		select {
		case out <- tasks.Result{Output: task.Output}:
		case <-ctx.Done():
		}
		<-ctx.Done()
		h.mu.Lock()
		h.stopped[gen]++
		h.mu.Unlock()
	}()
	return out
}

func (h *generationHandler) Success(*buildctx.Context, tasks.WatchTask, tasks.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.successes++
}

func (h *generationHandler) Fail(*buildctx.Context, tasks.WatchTask, error) {}

func (h *generationHandler) counts(gen uint64) (started, stopped int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started[gen], h.stopped[gen]
}

func (h *generationHandler) latestStarted() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	var latest uint64
	for gen := range h.started {
		latest = max(latest, gen)
	}
	return latest
}

func fakeRegistry(h tasks.Handler) *tasks.Registry {
	reg := tasks.NewRegistry()
	reg.Register(tasks.TypeJS, h)
	reg.Register(tasks.TypeDTS, h)
	reg.Register(tasks.TypeCopy, h)
	return reg
}

func TestWatchRestartsTasksOnManifestChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"package.json": validManifest})
	h := newGenerationHandler()

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, SessionOptions{Cwd: dir, Registry: fakeRegistry(h)}) }()

	testutil.Eventually(t, waitTimeout, func() bool {
		started, _ := h.counts(1)
		return started == 2
	}, "generation 1 started both tasks")

	// give the config watcher a moment before touching the manifest
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "package.json"), []byte(validManifest+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	testutil.Eventually(t, 5*time.Second, func() bool {
		_, stopped := h.counts(1)
		latest := h.latestStarted()
		started, _ := h.counts(latest)
		return stopped == 2 && latest > 1 && started == 2
	}, "generation 1 replaced by a newer generation")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchFailsFastOnInvalidManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"package.json": `{"name": "lib", "version": "one"}`})

	errCh := make(chan error, 1)
	go func() { errCh <- Watch(t.Context(), SessionOptions{Cwd: dir, Registry: fakeRegistry(newGenerationHandler())}) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrManifestValidation) {
			t.Fatalf("Watch() error = %v, want ErrManifestValidation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not fail")
	}
}

func TestWatchMissingManifest(t *testing.T) {
	t.Parallel()

	err := Watch(t.Context(), SessionOptions{Cwd: t.TempDir(), Registry: fakeRegistry(newGenerationHandler())})
	if !errors.Is(err, ErrConfigMissing) {
		t.Fatalf("Watch() error = %v, want ErrConfigMissing", err)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	t.Parallel()

	if err := Watch(t.Context(), SessionOptions{Cwd: filepath.Join(t.TempDir(), "nope")}); err == nil {
		t.Fatal("Watch() error = nil, want error for a missing directory")
	}
}
