// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/packup/packup/internal/buildctx"
)

// taskEnv builds the environment of a task command. The host environment is
// overridden by the configured env file, which is overridden by the PACKUP_*
// variables describing the task.
func taskEnv(bc *buildctx.Context, task WatchTask) ([]string, error) {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	if err := loadEnvFile(env, bc.Config().EnvFile, bc.Cwd()); err != nil {
		return nil, err
	}
	maps.Copy(env, packupEnv(bc, task))
	return envToSlice(env), nil
}

// packupEnv describes task to its command.
func packupEnv(bc *buildctx.Context, task WatchTask) map[string]string {
	cfg := bc.Config()
	cwd := bc.Cwd()
	output := task.OutputPath(cwd)

	env := map[string]string{
		"PACKUP_CWD":        cwd,
		"PACKUP_GENERATION": strconv.FormatUint(bc.Generation(), 10),
		"PACKUP_BUILD_ID":   bc.ID().String(),
		"PACKUP_TASK":       string(task.Type),
		"PACKUP_EXPORT":     task.ExportKey,
		"PACKUP_CONDITION":  string(task.Condition),
		"PACKUP_SOURCE":     task.SourcePath(cwd),
		"PACKUP_OUTPUT":     output,
		"PACKUP_OUTPUT_DIR": filepath.Dir(output),
		"PACKUP_FORMAT":     string(task.Format),
		"PACKUP_RUNTIME":    string(task.Runtime.OrDefault()),
		"PACKUP_PLATFORM":   task.Runtime.OrDefault().BundlerPlatform(),
		"PACKUP_MINIFY":     flag(cfg.Minify),
		"PACKUP_SOURCEMAP":  flag(cfg.Sourcemap),
	}
	if m := bc.Manifest(); m != nil {
		env["PACKUP_PACKAGE_NAME"] = m.Name
		env["PACKUP_PACKAGE_VERSION"] = m.Version
	}
	return env
}

// loadEnvFile merges the dotenv file named by envFile into env. It is resolved
// against cwd; a trailing "?" makes a missing file acceptable.
func loadEnvFile(env map[string]string, envFile, cwd string) error {
	if envFile == "" {
		return nil
	}
	name, optional := strings.CutSuffix(envFile, "?")
	vals, err := godotenv.Read(resolve(cwd, name))
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %q: %w", name, err)
	}
	maps.Copy(env, vals)
	return nil
}

func envToSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return ""
}
