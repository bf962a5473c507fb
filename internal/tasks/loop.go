// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/watch"
)

// buildFunc performs one build of a task.
type buildFunc func(ctx context.Context) error

// runLoop builds task once, then rebuilds it after every debounced change
// under its source directory. Each build produces one Result. The stream
// closes after the first failed build, when watching breaks, or when ctx is
// done; builds interrupted by cancellation are not reported.
func runLoop(ctx context.Context, bc *buildctx.Context, task WatchTask, clock Clock, build buildFunc) <-chan Result {
	out := make(chan Result)
	clock = clockOrDefault(clock)

	go func() {
		defer close(out)

		send := func(res Result) bool {
			select {
			case out <- res:
				return true
			case <-ctx.Done():
				return false
			}
		}
		once := func(ctx context.Context, changed []string) Result {
			start := clock.Now()
			err := build(ctx)
			return Result{
				Output:   task.Output,
				Duration: clock.Since(start),
				Changed:  changed,
				Err:      err,
			}
		}

		res := once(ctx, nil)
		if ctx.Err() != nil || !send(res) || res.Err != nil {
			return
		}

		cfg := bc.Config()
		sourceDir := task.SourceDir(bc.Cwd())
		var failed atomic.Bool
		sw, err := watch.NewSourceWatcher(watch.SourceConfig{
			BaseDir:  sourceDir,
			Patterns: []string{task.Pattern},
			Ignore:   append(slices.Clone(cfg.Watch.Ignore), outputIgnores(sourceDir, task.OutputPath(bc.Cwd()))...),
			Debounce: cfg.Watch.Debounce,
			Logger:   bc.Logger(),
			OnChange: func(ctx context.Context, changed []string) error {
				bc.Logger().Debug("sources changed", "task", task.String(), "files", changed)
				res := once(ctx, changed)
				if ctx.Err() != nil {
					return nil
				}
				if !send(res) {
					return nil
				}
				if res.Err != nil {
					failed.Store(true)
				}
				return res.Err
			},
		})
		if err != nil {
			send(Result{Output: task.Output, Err: err})
			return
		}
		if err := sw.Run(ctx); err != nil && !failed.Load() && ctx.Err() == nil {
			send(Result{Output: task.Output, Err: err})
		}
	}()
	return out
}

// outputIgnores keeps a task from retriggering on its own output when the
// output directory sits under the watched source directory.
func outputIgnores(sourceDir, output string) []string {
	rel, err := filepath.Rel(sourceDir, filepath.Dir(output))
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	if rel == "." {
		return []string{filepath.ToSlash(filepath.Base(output))}
	}
	return []string{filepath.ToSlash(rel) + "/**"}
}
