// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"path"
	"slices"
	"strings"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/pkg/manifest"
)

// conditionRank orders the planned conditions of one export entry.
var conditionRank = map[manifest.Condition]int{
	manifest.ConditionTypes:   0,
	manifest.ConditionImport:  1,
	manifest.ConditionRequire: 2,
	manifest.ConditionDefault: 3,
}

var scriptExts = []string{".js", ".mjs", ".cjs"}

// Plan derives the watch tasks of bc in export map order. Within one export
// key tasks follow the order types, import, require, default. Conditions
// missing from the context's extension map, shorthand entries and entries
// without a source produce no task. An output already claimed by an earlier
// task is not planned twice.
func Plan(bc *buildctx.Context) []WatchTask {
	m := bc.Manifest()
	if m == nil {
		return nil
	}
	runtime := bc.Config().Runtime.OrDefault()

	var planned []WatchTask
	seen := make(map[string]bool)
	for _, entry := range m.Exports {
		if entry.IsShorthand() {
			continue
		}
		source := entry.Source()
		if source == "" {
			continue
		}

		targets := slices.Clone(entry.Conditions)
		slices.SortStableFunc(targets, func(a, b manifest.Target) int {
			return rank(a.Condition) - rank(b.Condition)
		})

		for _, target := range targets {
			if target.Path == "" {
				continue
			}
			if _, ok := bc.Extension(target.Condition); !ok {
				continue
			}
			task, ok := planTarget(bc, entry.Key, source, target)
			if !ok || seen[task.Output] {
				continue
			}
			seen[task.Output] = true
			if task.Type == TypeJS {
				task.Runtime = runtime
			}
			planned = append(planned, task)
		}
	}
	return planned
}

func planTarget(bc *buildctx.Context, key, source string, target manifest.Target) (WatchTask, bool) {
	task := WatchTask{
		ExportKey: key,
		Condition: target.Condition,
		Source:    source,
		Output:    target.Path,
		Pattern:   scriptSourcePattern,
	}

	switch target.Condition {
	case manifest.ConditionTypes:
		task.Type = TypeDTS
	case manifest.ConditionImport:
		if !isScript(target.Path) {
			return WatchTask{}, false
		}
		task.Type, task.Format = TypeJS, FormatES
	case manifest.ConditionRequire:
		if !isScript(target.Path) {
			return WatchTask{}, false
		}
		task.Type, task.Format = TypeJS, FormatCJS
	case manifest.ConditionDefault:
		if !isScript(target.Path) {
			task.Type = TypeCopy
			task.Pattern = path.Base(source)
			break
		}
		task.Type, task.Format = TypeJS, defaultFormat(bc, target.Path)
	default:
		return WatchTask{}, false
	}
	return task, true
}

// defaultFormat picks the module format of a default target from its
// extension: the import extension means ES modules, the require extension
// CommonJS.
func defaultFormat(bc *buildctx.Context, target string) Format {
	ext := path.Ext(target)
	if importExt, ok := bc.Extension(manifest.ConditionImport); ok && ext == importExt {
		return FormatES
	}
	if requireExt, ok := bc.Extension(manifest.ConditionRequire); ok && ext == requireExt {
		return FormatCJS
	}
	if ext == ".mjs" {
		return FormatES
	}
	return FormatCJS
}

func rank(c manifest.Condition) int {
	if r, ok := conditionRank[c]; ok {
		return r
	}
	return len(conditionRank)
}

func isScript(target string) bool {
	return slices.Contains(scriptExts, strings.ToLower(path.Ext(target)))
}
