// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"fmt"
	"time"

	"github.com/packup/packup/internal/buildctx"
)

// reporter implements the Success and Fail halves of Handler for the
// built-in handlers.
type reporter struct{}

// Success logs "<type> <export> -> <output> (<duration>)".
func (reporter) Success(bc *buildctx.Context, task WatchTask, res Result) {
	bc.Logger().Success(SuccessLine(task, res))
	if len(res.Changed) > 0 {
		bc.Logger().Debug("rebuilt after change", "task", task.String(), "files", res.Changed)
	}
}

func (reporter) Fail(bc *buildctx.Context, task WatchTask, err error) {
	bc.Logger().Error(fmt.Sprintf("%s %s failed", task.Type, task.ExportKey), "condition", task.Condition, "err", err)
}

// SuccessLine formats the report of one successful result.
func SuccessLine(task WatchTask, res Result) string {
	output := res.Output
	if output == "" {
		output = task.Output
	}
	return fmt.Sprintf("%s %s -> %s (%s)", task.Type, task.ExportKey, output, res.Duration.Round(time.Millisecond))
}
