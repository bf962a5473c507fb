// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/packup/packup/internal/issue"
	"github.com/packup/packup/pkg/cueutil"
)

const (
	// FileBaseName is the build config file name without extension.
	FileBaseName = "packup.config"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "PACKUP"
)

//go:embed config_schema.cue
var configSchema []byte

// ErrBuildConfig is the sentinel wrapped by BuildConfigError.
var ErrBuildConfig = errors.New("invalid build config")

type (
	// LoadOptions defines the inputs of one configuration load.
	LoadOptions struct {
		// Cwd is the package directory.
		Cwd string
		// Paths are the config files currently known to exist, in snapshot
		// order. The first build config file among them is loaded.
		Paths []string
	}

	// Provider loads the build configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// BuildConfigError is returned when the build config file cannot be
	// read, does not match the schema, or holds invalid values.
	BuildConfigError struct {
		Path string
		Err  error
	}

	fileProvider struct{}
)

// Error implements the error interface.
func (e *BuildConfigError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both ErrBuildConfig and the cause.
func (e *BuildConfigError) Unwrap() []error { return []error{ErrBuildConfig, e.Err} }

// BuildConfigFiles returns the build config candidate names in lookup order.
func BuildConfigFiles() []string {
	return []string{
		FileBaseName + ".cue",
		FileBaseName + ".toml",
		FileBaseName + ".yaml",
		FileBaseName + ".yml",
		FileBaseName + ".json",
	}
}

// NewProvider creates a Provider reading configuration files from disk.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load implements Provider.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return Load(ctx, opts)
}

// Load resolves the build configuration: defaults, then the first build
// config file in opts.Paths that exists, then PACKUP_* environment variables.
func Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load build config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("runtime", string(defaults.Runtime))
	v.SetDefault("minify", defaults.Minify)
	v.SetDefault("sourcemap", defaults.Sourcemap)
	v.SetDefault("env_file", defaults.EnvFile)
	v.SetDefault("commands.bundle", defaults.Commands.Bundle)
	v.SetDefault("commands.dts", defaults.Commands.DTS)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce.String())
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := findConfigFile(opts)
	if path != "" {
		if err := mergeFile(v, path); err != nil {
			return nil, &BuildConfigError{
				Path: path,
				Err: issue.NewErrorContext().
					WithOperation("load build config").
					WithResource(relTo(opts.Cwd, path)).
					WithSuggestion("Check the file syntax for its format").
					WithIssue(issue.BuildConfigId).
					Wrap(err).
					BuildError(),
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &BuildConfigError{Path: path, Err: fmt.Errorf("failed to decode build config: %w", err)}
	}
	cfg.Path = path

	if err := cfg.Runtime.Validate(); err != nil {
		return nil, &BuildConfigError{
			Path: path,
			Err: issue.NewErrorContext().
				WithOperation("validate build config").
				WithResource(relTo(opts.Cwd, path)).
				WithSuggestion("Set runtime to one of node, web or *").
				WithIssue(issue.BuildConfigId).
				Wrap(err).
				BuildError(),
		}
	}
	cfg.Runtime = cfg.Runtime.OrDefault()
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}

	return &cfg, nil
}

// findConfigFile returns the first build config candidate in opts.Paths that
// exists on disk.
func findConfigFile(opts LoadOptions) string {
	names := BuildConfigFiles()
	for _, p := range opts.Paths {
		if !slices.Contains(names, filepath.Base(p)) {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(opts.Cwd, p)
		}
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// mergeFile decodes path according to its extension, validates it against
// #Config and merges it into v.
func mergeFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	name := filepath.Base(path)
	opts := []cueutil.Option{cueutil.WithFilename(name), cueutil.WithConcrete(false)}

	var configMap map[string]any
	switch filepath.Ext(path) {
	case ".cue":
		res, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config", opts...)
		if err != nil {
			return err
		}
		configMap = *res.Value

	case ".json":
		value, err := cueutil.CompileJSON(cuecontext.New(), data, opts...)
		if err != nil {
			return err
		}
		if configMap, err = validateValue(value, opts); err != nil {
			return err
		}

	case ".toml":
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if configMap, err = validateValue(encode(raw), opts); err != nil {
			return err
		}

	case ".yaml", ".yml":
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if configMap, err = validateValue(encode(raw), opts); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%s: unsupported config format", name)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// encode converts a decoded TOML or YAML document into a CUE value. An empty
// document is an empty struct.
func encode(raw map[string]any) cue.Value {
	if raw == nil {
		raw = map[string]any{}
	}
	return cuecontext.New().Encode(raw)
}

func validateValue(value cue.Value, opts []cueutil.Option) (map[string]any, error) {
	if value.Err() != nil {
		return nil, value.Err()
	}
	unified, err := cueutil.Unify(configSchema, "#Config", value, opts...)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := unified.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func relTo(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil && dir != "" {
		return rel
	}
	return path
}
