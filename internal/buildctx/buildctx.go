// SPDX-License-Identifier: MPL-2.0

// Package buildctx holds the immutable snapshot of everything a watch
// generation needs to plan and run its tasks.
package buildctx

import (
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/packup/packup/internal/config"
	"github.com/packup/packup/internal/logging"
	"github.com/packup/packup/pkg/manifest"
)

type (
	// Options are the inputs combined into a Context.
	Options struct {
		Cwd        string
		Generation uint64
		Config     *config.Config
		Manifest   *manifest.Manifest
		// ExtMap defaults to ExtensionMapFor(Manifest.EffectiveType()).
		ExtMap ExtensionMap
		Logger *logging.Logger
	}

	// Context is one resolved build context. It is never mutated after New
	// returns; a changed input produces a new Context with a new ID.
	Context struct {
		id         uuid.UUID
		generation uint64
		cwd        string
		cfg        config.Config
		manifest   *manifest.Manifest
		extMap     ExtensionMap
		logger     *logging.Logger
	}
)

// New combines opts into a Context. It performs no I/O and cannot fail:
// its inputs were validated when they were resolved.
func New(opts Options) *Context {
	cfg := config.DefaultConfig()
	if opts.Config != nil {
		cfg = opts.Config
	}
	ext := opts.ExtMap
	if ext == nil && opts.Manifest != nil {
		ext = ExtensionMapFor(opts.Manifest.EffectiveType())
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	frozen := *cfg
	frozen.Watch.Ignore = slices.Clone(cfg.Watch.Ignore)

	return &Context{
		id:         uuid.New(),
		generation: opts.Generation,
		cwd:        opts.Cwd,
		cfg:        frozen,
		manifest:   opts.Manifest,
		extMap:     maps.Clone(ext),
		logger:     logger.With("gen", opts.Generation),
	}
}

// ID uniquely identifies this context.
func (c *Context) ID() uuid.UUID { return c.id }

// Generation is the config snapshot generation the context was resolved from.
func (c *Context) Generation() uint64 { return c.generation }

// Cwd is the package directory.
func (c *Context) Cwd() string { return c.cwd }

// Config returns a copy of the build configuration.
func (c *Context) Config() config.Config { return c.cfg }

// Manifest is the validated package manifest. Callers must not modify it.
func (c *Context) Manifest() *manifest.Manifest { return c.manifest }

// ExtensionMap returns a copy of the condition to extension mapping.
func (c *Context) ExtensionMap() ExtensionMap { return maps.Clone(c.extMap) }

// Extension returns the output extension for condition cond.
func (c *Context) Extension(cond manifest.Condition) (string, bool) {
	return c.extMap.Lookup(cond)
}

// Logger is the logger of this generation.
func (c *Context) Logger() *logging.Logger { return c.logger }
