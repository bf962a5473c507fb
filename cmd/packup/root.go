// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for packup.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/packup/packup/internal/app/pipeline"
	"github.com/packup/packup/internal/issue"
	"github.com/packup/packup/internal/logging"
	"github.com/packup/packup/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	rootFlags rootFlagValues

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "packup",
		Short: "Rebuild a package from its export map while you edit",
		Long: TitleStyle.Render("packup") + SubtitleStyle.Render(" - Rebuild a package from its export map while you edit") + `

packup reads the "exports" field of package.json and keeps one watch task
running per export condition: bundles for import/require, declarations for
types and copies for static defaults. Editing package.json or the build
config restarts every task with the new settings.

` + SubtitleStyle.Render("Examples:") + `
  packup watch                  Watch the package in the current directory
  packup watch --cwd ./lib      Watch another package
  packup check                  Print the tasks a watch session would run
  packup explain export-ordering
                                Explain an error reported by watch`,
	}
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	cwd    string
	silent bool
	debug  bool
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.cwd, "cwd", "", "package directory (default is the current directory)")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.silent, "silent", false, "only print errors")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.debug, "debug", false, "print debug output")

	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newExplainCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFatal))
	}
}

// handleError prints errors that were not already logged by the command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func newLogger(cmd *cobra.Command) *logging.Logger {
	return logging.New(logging.Options{
		Silent: rootFlags.silent,
		Debug:  rootFlags.debug,
		Output: cmd.ErrOrStderr(),
		Prefix: "packup",
	})
}

func sessionOptions(logger *logging.Logger) pipeline.SessionOptions {
	return pipeline.SessionOptions{
		Cwd:    rootFlags.cwd,
		Logger: logger,
	}
}

// reportFatal logs a pipeline error once, pointing at its catalog entry, and
// converts it to a bare exit status. Errors outside the catalog are returned
// unchanged so fang prints them.
func reportFatal(logger *logging.Logger, err error) error {
	i := issue.Get(pipeline.IssueFor(err))
	if i == nil {
		return err
	}
	logger.Error(err.Error(), "explain", i.Slug())
	if rootFlags.debug {
		logger.Debug(formatErrorForDisplay(err, true))
	}
	return &ExitError{Code: types.ExitFatal}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
