// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"

	"github.com/packup/packup/internal/issue"
)

func newExplainCommand() *cobra.Command {
	var style string

	cmd := &cobra.Command{
		Use:   "explain <issue>",
		Short: "Explain an error reported by watch or check",
		Long: `Render the help page of an error class. Every fatal error logged by packup
names its page with an "explain" key.

Known issues: ` + strings.Join(issue.Slugs(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: issue.Slugs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, ok := issue.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown issue %q (known: %s)", args[0], strings.Join(issue.Slugs(), ", "))
			}
			out, err := i.Render(style)
			if err != nil {
				return fmt.Errorf("render %s: %w", args[0], err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().StringVar(&style, "style", styles.AutoStyle, "glamour style (auto, dark, light, notty)")

	return cmd
}
