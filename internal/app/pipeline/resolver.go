// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/config"
	"github.com/packup/packup/internal/configset"
	"github.com/packup/packup/internal/logging"
	"github.com/packup/packup/pkg/manifest"
)

type (
	// ContextResolver turns a config snapshot into a build context.
	ContextResolver interface {
		Resolve(ctx context.Context, snap configset.Snapshot, gen uint64) (*buildctx.Context, error)
	}

	// Resolver resolves build contexts from the package directory.
	Resolver struct {
		cwd     string
		configs config.Provider
		logger  *logging.Logger
	}
)

// Candidates returns the config files watched in a package directory, the
// manifest first.
func Candidates() []string {
	return append([]string{manifest.FileName}, config.BuildConfigFiles()...)
}

// NewResolver creates a Resolver for the package in cwd. A nil provider
// reads build config files from disk.
func NewResolver(cwd string, configs config.Provider, logger *logging.Logger) *Resolver {
	if configs == nil {
		configs = config.NewProvider()
	}
	return &Resolver{cwd: cwd, configs: configs, logger: logger}
}

// Resolve runs the resolution stages in order and stops at the first
// failure: the manifest must be in snap, must load and validate, and its
// export conditions must be ordered; then the build config is loaded. ctx
// is checked between stages so a superseded resolution stops early.
func (r *Resolver) Resolve(ctx context.Context, snap configset.Snapshot, gen uint64) (*buildctx.Context, error) {
	manifestPath := filepath.Join(r.cwd, manifest.FileName)
	if !snap.Contains(manifestPath) {
		return nil, &ConfigMissingError{Path: manifestPath}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := manifest.LoadAndValidate(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigMissingError{Path: manifestPath}
		}
		return nil, err
	}

	warnings, err := manifest.ValidateExportsOrdering(m)
	for _, w := range warnings {
		r.logger.Warn(w)
	}
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, err := r.configs.Load(ctx, config.LoadOptions{Cwd: r.cwd, Paths: snap.Paths})
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		r.logger.Debug("loaded build config", "path", relTo(r.cwd, cfg.Path))
	}

	return buildctx.New(buildctx.Options{
		Cwd:        r.cwd,
		Generation: gen,
		Config:     cfg,
		Manifest:   m,
		Logger:     r.logger,
	}), nil
}

func dirOf(path string) string {
	return filepath.Dir(path)
}

func relTo(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}
