// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/configset"
	"github.com/packup/packup/internal/issue"
	"github.com/packup/packup/internal/logging"
	"github.com/packup/packup/internal/metrics"
	"github.com/packup/packup/internal/tasks"
)

type (
	// TaskRunner runs the planned tasks of one build context until ctx is
	// done or a task fails.
	TaskRunner interface {
		Execute(ctx context.Context, bc *buildctx.Context, planned []tasks.WatchTask) error
	}

	// Options configures a Pipeline. Resolver and Runner are required.
	Options struct {
		Resolver ContextResolver
		Runner   TaskRunner
		// Planner defaults to tasks.Plan.
		Planner  func(*buildctx.Context) []tasks.WatchTask
		Recorder metrics.Recorder
		Logger   *logging.Logger
	}

	// Pipeline turns config snapshots into running task generations.
	Pipeline struct {
		resolver ContextResolver
		runner   TaskRunner
		plan     func(*buildctx.Context) []tasks.WatchTask
		recorder metrics.Recorder
		logger   *logging.Logger
	}

	resolution struct {
		gen uint64
		bc  *buildctx.Context
		err error
	}

	// execution is the task generation currently running.
	execution struct {
		gen    uint64
		cancel context.CancelFunc
		done   chan error
	}
)

// New creates a Pipeline from opts.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		resolver: opts.Resolver,
		runner:   opts.Runner,
		plan:     opts.Planner,
		recorder: opts.Recorder,
		logger:   opts.Logger,
	}
	if p.plan == nil {
		p.plan = tasks.Plan
	}
	if p.recorder == nil {
		p.recorder = metrics.NoopRecorder{}
	}
	return p
}

// Run resolves every snapshot received from snapshots and runs the tasks of
// the newest successful resolution. A snapshot arriving while an earlier
// one is still resolving cancels it, and results of superseded generations
// are discarded. Applying a new build context cancels the running task
// generation and waits for it to stop before the new one starts.
//
// Run returns nil when ctx is done or snapshots is closed. A failed
// resolution is logged and returned. A task failure has already been
// reported by its handler and is returned as is.
func (p *Pipeline) Run(ctx context.Context, snapshots <-chan configset.Snapshot) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		gen     uint64
		current *execution
	)
	resolved := make(chan resolution)
	resolveCancel := context.CancelFunc(func() {})
	defer func() { resolveCancel() }()

	stop := func() error {
		if current == nil {
			return nil
		}
		current.cancel()
		err := <-current.done
		current = nil
		return err
	}

	for {
		var execDone <-chan error
		if current != nil {
			execDone = current.done
		}

		select {
		case <-ctx.Done():
			return stop()

		case snap, ok := <-snapshots:
			if !ok {
				return stop()
			}
			gen++
			p.recorder.IncSnapshots()
			resolveCancel()
			var rctx context.Context
			rctx, resolveCancel = context.WithCancel(ctx)
			p.logger.Debug("resolving build context", "gen", gen, "files", len(snap.Paths))
			go p.resolve(ctx, rctx, resolved, snap, gen)

		case r := <-resolved:
			if r.gen != gen {
				p.recorder.IncResolution(metrics.ResolutionStale)
				p.logger.Debug("discarding stale build context", "gen", r.gen, "current", gen)
				continue
			}
			if r.err != nil {
				if ctx.Err() != nil && errors.Is(r.err, context.Canceled) {
					return stop()
				}
				p.recorder.IncResolution(metrics.ResolutionFailed)
				p.reportFatal(r.err)
				return errors.Join(r.err, stop())
			}

			p.recorder.IncResolution(metrics.ResolutionApplied)
			p.recorder.SetGeneration(r.gen)
			if err := stop(); err != nil {
				return err
			}
			current = p.start(ctx, r.bc)

		case err := <-execDone:
			finished := current.gen
			current = nil
			if err != nil {
				return err
			}
			p.logger.Debug("task generation finished", "gen", finished)
		}
	}
}

func (p *Pipeline) resolve(ctx, rctx context.Context, out chan<- resolution, snap configset.Snapshot, gen uint64) {
	bc, err := p.resolver.Resolve(rctx, snap, gen)
	select {
	case out <- resolution{gen: gen, bc: bc, err: err}:
	case <-ctx.Done():
	}
}

func (p *Pipeline) start(ctx context.Context, bc *buildctx.Context) *execution {
	planned := p.plan(bc)
	bc.Logger().Debug("applying build context", "id", bc.ID())
	if len(planned) == 0 {
		bc.Logger().Warn("no watch tasks planned from the export map")
	} else {
		bc.Logger().Info("watching", "tasks", len(planned))
	}

	tctx, cancel := context.WithCancel(ctx)
	e := &execution{gen: bc.Generation(), cancel: cancel, done: make(chan error, 1)}
	go func() {
		e.done <- p.runner.Execute(tctx, bc, planned)
	}()
	return e
}

func (p *Pipeline) reportFatal(err error) {
	if i := issue.Get(IssueFor(err)); i != nil {
		p.logger.Error(err.Error(), "explain", i.Slug())
		return
	}
	p.logger.Error(err.Error())
}
