// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/packup/packup/internal/issue"
	"github.com/packup/packup/internal/testutil"
	"github.com/packup/packup/pkg/platform"
)

func candidatePaths(dir string) []string {
	paths := []string{filepath.Join(dir, "package.json")}
	for _, name := range BuildConfigFiles() {
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg, err := Load(context.Background(), LoadOptions{Cwd: dir, Paths: candidatePaths(dir)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty", cfg.Path)
	}
	if cfg.Runtime != platform.RuntimeAny {
		t.Errorf("Runtime = %q, want *", cfg.Runtime)
	}
	if cfg.EnvFile != DefaultEnvFile {
		t.Errorf("EnvFile = %q, want %q", cfg.EnvFile, DefaultEnvFile)
	}
	if cfg.Commands.Bundle != DefaultBundleCommand || cfg.Commands.DTS != DefaultDTSCommand {
		t.Errorf("Commands = %+v, want defaults", cfg.Commands)
	}
	if cfg.Watch.Debounce != DefaultDebounce {
		t.Errorf("Debounce = %v, want %v", cfg.Watch.Debounce, DefaultDebounce)
	}
}

func TestLoadFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "cue",
			file: "packup.config.cue",
			content: `runtime: "node"
minify: true
watch: {
	debounce: "250ms"
	ignore: ["fixtures/**"]
}
commands: bundle: "echo bundle"
`,
		},
		{
			name: "toml",
			file: "packup.config.toml",
			content: `runtime = "node"
minify = true

[commands]
bundle = "echo bundle"

[watch]
debounce = "250ms"
ignore = ["fixtures/**"]
`,
		},
		{
			name: "yaml",
			file: "packup.config.yaml",
			content: `runtime: node
minify: true
commands:
  bundle: echo bundle
watch:
  debounce: 250ms
  ignore:
    - fixtures/**
`,
		},
		{
			name:    "json",
			file:    "packup.config.json",
			content: `{"runtime": "node", "minify": true, "commands": {"bundle": "echo bundle"}, "watch": {"debounce": "250ms", "ignore": ["fixtures/**"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.WriteFiles(t, dir, map[string]string{tt.file: tt.content})

			cfg, err := Load(context.Background(), LoadOptions{Cwd: dir, Paths: candidatePaths(dir)})
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.Path != filepath.Join(dir, tt.file) {
				t.Errorf("Path = %q", cfg.Path)
			}
			if cfg.Runtime != platform.RuntimeNode || !cfg.Minify || cfg.Sourcemap {
				t.Errorf("cfg = %+v", cfg)
			}
			if cfg.Commands.Bundle != "echo bundle" || cfg.Commands.DTS != DefaultDTSCommand {
				t.Errorf("Commands = %+v", cfg.Commands)
			}
			if cfg.Watch.Debounce != 250*time.Millisecond {
				t.Errorf("Debounce = %v, want 250ms", cfg.Watch.Debounce)
			}
			if !slices.Equal(cfg.Watch.Ignore, []string{"fixtures/**"}) {
				t.Errorf("Ignore = %v", cfg.Watch.Ignore)
			}
		})
	}
}

func TestLoadFirstCandidateInSnapshotWins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"packup.config.cue":  `minify: true`,
		"packup.config.json": `{"sourcemap": true}`,
	})

	// The cue file is not part of the snapshot, so it is never read.
	paths := []string{filepath.Join(dir, "package.json"), filepath.Join(dir, "packup.config.json")}
	cfg, err := Load(context.Background(), LoadOptions{Cwd: dir, Paths: paths})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Minify || !cfg.Sourcemap {
		t.Errorf("cfg = %+v, want the json file applied", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		file    string
		content string
		wantMsg string
	}{
		{name: "unknown runtime", file: "packup.config.cue", content: `runtime: "deno"`, wantMsg: "runtime"},
		{name: "unknown field", file: "packup.config.cue", content: `minfy: true`, wantMsg: "minfy"},
		{name: "wrong type", file: "packup.config.json", content: `{"minify": "yes"}`, wantMsg: "minify"},
		{name: "bad duration", file: "packup.config.yaml", content: "watch:\n  debounce: soon\n", wantMsg: "debounce"},
		{name: "toml syntax", file: "packup.config.toml", content: `minify = `, wantMsg: "packup.config.toml"},
		{name: "json syntax", file: "packup.config.json", content: `{"minify": `, wantMsg: "packup.config.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			testutil.WriteFiles(t, dir, map[string]string{tt.file: tt.content})

			_, err := Load(context.Background(), LoadOptions{Cwd: dir, Paths: candidatePaths(dir)})
			if !errors.Is(err, ErrBuildConfig) {
				t.Fatalf("Load() error = %v, want ErrBuildConfig", err)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || len(ae.Suggestions) == 0 {
				t.Errorf("error should carry an actionable error with suggestions: %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PACKUP_MINIFY", "true")
	t.Setenv("PACKUP_WATCH_DEBOUNCE", "1s")

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"packup.config.cue": `minify: false`})

	cfg, err := Load(context.Background(), LoadOptions{Cwd: dir, Paths: candidatePaths(dir)})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Minify {
		t.Error("PACKUP_MINIFY should override the file value")
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
}

func TestLoadEnvInvalidRuntime(t *testing.T) {
	t.Setenv("PACKUP_RUNTIME", "deno")

	dir := t.TempDir()
	_, err := Load(context.Background(), LoadOptions{Cwd: dir, Paths: candidatePaths(dir)})
	if !errors.Is(err, ErrBuildConfig) || !errors.Is(err, platform.ErrInvalidRuntime) {
		t.Errorf("Load() error = %v, want ErrBuildConfig wrapping ErrInvalidRuntime", err)
	}
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{Cwd: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}
