// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/packup/packup/internal/app/pipeline"
	"github.com/packup/packup/internal/logging"
	"github.com/packup/packup/internal/metrics"
	"github.com/packup/packup/pkg/types"
)

func newWatchCommand() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the package and rebuild every export on change",
		Long: `Watch package.json and the build config, and run one watch task per
export condition. Any change to the config files restarts all tasks with a
freshly resolved build context. The first resolution or task failure stops
the session with exit status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, types.ListenAddr(metricsAddr))
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")

	return cmd
}

func runWatch(cmd *cobra.Command, addr types.ListenAddr) error {
	if err := addr.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := newLogger(cmd)
	opts := sessionOptions(logger)

	g, gctx := errgroup.WithContext(ctx)
	serveCtx, stopServe := context.WithCancel(gctx)
	defer stopServe()

	if !addr.IsZero() {
		reg := prometheus.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		ln, err := metrics.Listen(addr.String())
		if err != nil {
			return err
		}
		logger.Info("serving metrics", "addr", ln.Addr().String())
		g.Go(func() error { return metrics.Serve(serveCtx, ln, reg) })
	}

	g.Go(func() error {
		defer stopServe()
		return pipeline.Watch(gctx, opts)
	})

	err := g.Wait()
	if err == nil || (ctx.Err() != nil && errors.Is(err, context.Canceled)) {
		return nil
	}
	return reportWatchError(logger, err)
}

// reportWatchError converts an error the pipeline already logged into a bare
// exit status.
func reportWatchError(logger *logging.Logger, err error) error {
	if pipeline.IssueFor(err) == 0 {
		return err
	}
	logger.Debug("watch session stopped", "err", err)
	return &ExitError{Code: types.ExitFatal}
}
