// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/packup/packup/pkg/manifest"
	"github.com/packup/packup/pkg/platform"
)

// Task types.
const (
	TypeJS   Type = "watch:js"
	TypeDTS  Type = "watch:dts"
	TypeCopy Type = "watch:copy"
)

// Module formats of watch:js outputs.
const (
	FormatES  Format = "es"
	FormatCJS Format = "cjs"
)

// scriptSourcePattern selects the source files whose change rebuilds a
// watch:js or watch:dts task.
const scriptSourcePattern = "**/*.{ts,tsx,mts,cts,js,jsx,mjs,cjs,json}"

type (
	// Type tags a WatchTask and selects its Handler.
	Type string

	// Format is a JavaScript module format.
	Format string

	// WatchTask is one unit of watch work derived from an export condition.
	// Source and Output are the manifest paths, relative to the package
	// directory.
	WatchTask struct {
		Type      Type
		ExportKey string
		Condition manifest.Condition
		Source    string
		Output    string
		// Pattern is the doublestar glob, relative to the source directory,
		// of files whose change triggers a rebuild.
		Pattern string
		// Format and Runtime are only set for watch:js tasks.
		Format  Format
		Runtime platform.Runtime
	}

	// Result is one item of a handler's result stream. A Result with a
	// non-nil Err is the last item of its stream.
	Result struct {
		Output   string
		Duration time.Duration
		// Changed lists the source paths that triggered a rebuild; it is
		// empty for the initial build.
		Changed []string
		Err     error
	}
)

// String identifies t in logs.
func (t WatchTask) String() string {
	return fmt.Sprintf("%s %s[%s]", t.Type, t.ExportKey, t.Condition)
}

// SourcePath resolves Source against cwd.
func (t WatchTask) SourcePath(cwd string) string {
	return resolve(cwd, t.Source)
}

// SourceDir is the directory watched for source changes.
func (t WatchTask) SourceDir(cwd string) string {
	return filepath.Dir(t.SourcePath(cwd))
}

// OutputPath resolves Output against cwd.
func (t WatchTask) OutputPath(cwd string) string {
	return resolve(cwd, t.Output)
}

func resolve(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, filepath.FromSlash(p))
}
