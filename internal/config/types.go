// SPDX-License-Identifier: MPL-2.0

package config

import (
	"time"

	"github.com/packup/packup/pkg/platform"
)

const (
	// DefaultBundleCommand builds one JavaScript entry with esbuild.
	DefaultBundleCommand = `esbuild "$PACKUP_SOURCE" --bundle --packages=external ` +
		`--outfile="$PACKUP_OUTPUT" --format="$PACKUP_FORMAT" --platform="$PACKUP_PLATFORM" ` +
		`${PACKUP_MINIFY:+--minify} ${PACKUP_SOURCEMAP:+--sourcemap}`

	// DefaultDTSCommand emits declarations for one entry with tsc.
	DefaultDTSCommand = `tsc "$PACKUP_SOURCE" --declaration --emitDeclarationOnly ` +
		`--skipLibCheck --outDir "$PACKUP_OUTPUT_DIR"`

	// DefaultEnvFile is loaded into task environments when present.
	DefaultEnvFile = ".env?"

	// DefaultDebounce is the source watch quiet period.
	DefaultDebounce = 100 * time.Millisecond
)

type (
	// Config is the resolved build configuration.
	Config struct {
		Runtime   platform.Runtime `mapstructure:"runtime"`
		Minify    bool             `mapstructure:"minify"`
		Sourcemap bool             `mapstructure:"sourcemap"`
		// EnvFile is loaded into every task environment. A trailing "?"
		// makes the file optional.
		EnvFile  string         `mapstructure:"env_file"`
		Commands CommandsConfig `mapstructure:"commands"`
		Watch    WatchConfig    `mapstructure:"watch"`

		// Path is the file the configuration was read from, empty when only
		// defaults and environment apply.
		Path string `mapstructure:"-"`
	}

	// CommandsConfig holds the shell snippets run by task handlers.
	CommandsConfig struct {
		Bundle string `mapstructure:"bundle"`
		DTS    string `mapstructure:"dts"`
	}

	// WatchConfig tunes source watching inside task handlers.
	WatchConfig struct {
		Debounce time.Duration `mapstructure:"debounce"`
		Ignore   []string      `mapstructure:"ignore"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Runtime: platform.RuntimeAny,
		EnvFile: DefaultEnvFile,
		Commands: CommandsConfig{
			Bundle: DefaultBundleCommand,
			DTS:    DefaultDTSCommand,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
			Ignore:   []string{},
		},
	}
}
