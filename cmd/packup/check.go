// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/packup/packup/internal/app/pipeline"
	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/tasks"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Resolve the package once and print its watch tasks",
		Long: `Resolve package.json and the build config exactly as the first generation
of a watch session would, then print the planned watch tasks in order without
starting them. Exits with status 1 when the package cannot be resolved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd)
			bc, planned, err := pipeline.Check(cmd.Context(), sessionOptions(logger))
			if err != nil {
				return reportFatal(logger, err)
			}
			printPlan(cmd.OutOrStdout(), bc, planned)
			return nil
		},
	}
}

func printPlan(w io.Writer, bc *buildctx.Context, planned []tasks.WatchTask) {
	m := bc.Manifest()
	name := m.Name
	if m.Version != "" {
		name += "@" + m.Version
	}
	fmt.Fprintln(w, TitleStyle.Render(name)+SubtitleStyle.Render(" ("+m.EffectiveType().String()+")"))

	if len(planned) == 0 {
		fmt.Fprintln(w, WarningStyle.Render("no watch tasks"))
		return
	}
	for _, task := range planned {
		fmt.Fprintln(w, "  "+planLine(task))
	}
	fmt.Fprintln(w, SuccessStyle.Render(fmt.Sprintf("%d watch tasks", len(planned))))
}

// planLine renders one task as "<type> <export>[<condition>] <source> -> <output>",
// followed by the module format and runtime of watch:js tasks.
func planLine(task tasks.WatchTask) string {
	line := fmt.Sprintf("%s %s[%s] %s -> %s", CmdStyle.Render(string(task.Type)), task.ExportKey, task.Condition, task.Source, task.Output)
	if task.Type == tasks.TypeJS {
		line += SubtitleStyle.Render(fmt.Sprintf(" (%s, %s)", task.Format, task.Runtime))
	}
	return line
}
