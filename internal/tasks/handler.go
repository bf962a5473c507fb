// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/packup/packup/internal/buildctx"
)

type (
	// Handler runs every task of one type.
	Handler interface {
		// Run starts the task and returns its result stream. The stream ends
		// after an error result, or when ctx is cancelled.
		Run(ctx context.Context, bc *buildctx.Context, task WatchTask) <-chan Result
		// Success reports one successful result.
		Success(bc *buildctx.Context, task WatchTask, res Result)
		// Fail reports the error that ended the stream.
		Fail(bc *buildctx.Context, task WatchTask, err error)
	}

	// Clock is the time source used to measure builds.
	Clock interface {
		Now() time.Time
		Since(t time.Time) time.Duration
	}

	// Registry maps task types to handlers.
	Registry struct {
		handlers map[Type]Handler
	}

	realClock struct{}
)

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Type]Handler)}
}

// DefaultRegistry registers the built-in handlers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeJS, NewBundleHandler())
	r.Register(TypeDTS, NewDTSHandler())
	r.Register(TypeCopy, NewCopyHandler())
	return r
}

// Register adds or replaces the handler of typ.
func (r *Registry) Register(typ Type, h Handler) {
	r.handlers[typ] = h
}

// Get returns the handler of typ.
func (r *Registry) Get(typ Type) (Handler, error) {
	h, ok := r.handlers[typ]
	if !ok {
		return nil, fmt.Errorf("%w for %q", ErrNoHandler, typ)
	}
	return h, nil
}

// Types returns the registered task types, sorted.
func (r *Registry) Types() []Type {
	return slices.Sorted(maps.Keys(r.handlers))
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return realClock{}
	}
	return c
}
