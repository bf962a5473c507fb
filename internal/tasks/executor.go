// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/metrics"
)

type (
	// Executor runs planned tasks through their handlers.
	Executor struct {
		registry *Registry
		recorder metrics.Recorder
	}

	// ExecutorOption configures an Executor.
	ExecutorOption func(*Executor)
)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) ExecutorOption {
	return func(e *Executor) {
		if r != nil {
			e.recorder = r
		}
	}
}

// NewExecutor creates an Executor dispatching through reg.
func NewExecutor(reg *Registry, opts ...ExecutorOption) *Executor {
	e := &Executor{registry: reg, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute starts every task in order and supervises the result streams
// until ctx is done or a task fails. Each success is reported through the
// task's handler. The first failure is reported once through its handler's
// Fail, every other task is cancelled and drained, and the failure is
// returned as a *TaskHandlerError. Cancellation of ctx returns nil once all
// streams have closed.
func (e *Executor) Execute(ctx context.Context, bc *buildctx.Context, planned []WatchTask) error {
	handlers := make([]Handler, len(planned))
	for i, task := range planned {
		h, err := e.registry.Get(task.Type)
		if err != nil {
			herr := &TaskHandlerError{Task: task, Err: err}
			bc.Logger().Error(herr.Error())
			return herr
		}
		handlers[i] = h
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	var failed atomic.Bool
	for i, task := range planned {
		h := handlers[i]
		results := h.Run(gctx, bc, task)
		bc.Logger().Debug("task started", "task", task.String())

		g.Go(func() error {
			for res := range results {
				if res.Err == nil {
					if failed.Load() {
						continue
					}
					h.Success(bc, task, res)
					e.recorder.IncTaskResult(string(task.Type), metrics.ResultSuccess)
					e.recorder.ObserveTaskDuration(string(task.Type), res.Duration)
					continue
				}

				var err error
				if failed.CompareAndSwap(false, true) {
					h.Fail(bc, task, res.Err)
					e.recorder.IncTaskResult(string(task.Type), metrics.ResultFailed)
					err = &TaskHandlerError{Task: task, Err: res.Err}
				}
				cancel()
				for range results {
				}
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
