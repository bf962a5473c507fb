// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/config"
	"github.com/packup/packup/internal/configset"
	"github.com/packup/packup/internal/logging"
	"github.com/packup/packup/internal/metrics"
	"github.com/packup/packup/internal/tasks"
	"github.com/packup/packup/internal/watch"
)

// SessionOptions configures Watch and Check.
type SessionOptions struct {
	// Cwd is the package directory. Defaults to the process working
	// directory.
	Cwd      string
	Logger   *logging.Logger
	Configs  config.Provider
	Registry *tasks.Registry
	Recorder metrics.Recorder
}

func (o SessionOptions) withDefaults() (SessionOptions, error) {
	if o.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return o, fmt.Errorf("determine working directory: %w", err)
		}
		o.Cwd = wd
	}
	abs, err := filepath.Abs(o.Cwd)
	if err != nil {
		return o, fmt.Errorf("resolve working directory: %w", err)
	}
	o.Cwd = abs
	if o.Logger == nil {
		o.Logger = logging.Discard()
	}
	if o.Configs == nil {
		o.Configs = config.NewProvider()
	}
	if o.Registry == nil {
		o.Registry = tasks.DefaultRegistry()
	}
	if o.Recorder == nil {
		o.Recorder = metrics.NoopRecorder{}
	}
	return o, nil
}

// Watch runs a watch session until ctx is done or a fatal error occurs.
// Config file watches are released before Watch returns.
func Watch(ctx context.Context, opts SessionOptions) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}

	opts.Logger.Debug("watching config files")
	tracker := configset.NewTracker(opts.Cwd, Candidates(), opts.Logger)
	pw, err := watch.NewPathWatcher(tracker.Current().Paths, opts.Logger)
	if err != nil {
		return err
	}

	p := New(Options{
		Resolver: NewResolver(opts.Cwd, opts.Configs, opts.Logger),
		Runner:   tasks.NewExecutor(opts.Registry, tasks.WithRecorder(opts.Recorder)),
		Recorder: opts.Recorder,
		Logger:   opts.Logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	snapshots := tracker.Run(gctx, pw.Events())
	g.Go(func() error { return pw.Run(gctx) })
	g.Go(func() error { return p.Run(gctx, snapshots) })
	return g.Wait()
}

// Check resolves the package once, as the first snapshot of a watch
// session would, and returns the build context with its planned tasks.
func Check(ctx context.Context, opts SessionOptions) (*buildctx.Context, []tasks.WatchTask, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, nil, err
	}
	snap := configset.NewTracker(opts.Cwd, Candidates(), opts.Logger).Current()
	bc, err := NewResolver(opts.Cwd, opts.Configs, opts.Logger).Resolve(ctx, snap, snap.Revision)
	if err != nil {
		return nil, nil, err
	}
	return bc, tasks.Plan(bc), nil
}
