// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/packup/packup/internal/buildctx"
	"github.com/packup/packup/internal/config"
)

// maxStderrLines bounds the command output quoted in a CommandError.
const maxStderrLines = 10

type (
	// CommandHandler runs a configured shell snippet for each build of a
	// task. The snippet is interpreted in-process, runs in the package
	// directory and sees the PACKUP_* task variables.
	CommandHandler struct {
		reporter
		name    string
		command func(config.Config) string
		clock   Clock
	}

	// HandlerOption configures a built-in handler.
	HandlerOption func(*handlerOptions)

	handlerOptions struct {
		clock Clock
	}

	// CommandError is a command that exited with a non-zero status.
	CommandError struct {
		Command  string
		ExitCode int
		Stderr   string
	}
)

// WithClock sets the clock used to time builds.
func WithClock(c Clock) HandlerOption {
	return func(o *handlerOptions) { o.clock = c }
}

// NewBundleHandler runs commands.bundle for watch:js tasks.
func NewBundleHandler(opts ...HandlerOption) *CommandHandler {
	return NewCommandHandler("bundle", func(cfg config.Config) string { return cfg.Commands.Bundle }, opts...)
}

// NewDTSHandler runs commands.dts for watch:dts tasks.
func NewDTSHandler(opts ...HandlerOption) *CommandHandler {
	return NewCommandHandler("dts", func(cfg config.Config) string { return cfg.Commands.DTS }, opts...)
}

// NewCommandHandler creates a handler running the snippet command selects
// from the build configuration.
func NewCommandHandler(name string, command func(config.Config) string, opts ...HandlerOption) *CommandHandler {
	o := applyHandlerOptions(opts)
	return &CommandHandler{name: name, command: command, clock: o.clock}
}

// Run builds task once and again after every source change.
func (h *CommandHandler) Run(ctx context.Context, bc *buildctx.Context, task WatchTask) <-chan Result {
	return runLoop(ctx, bc, task, h.clock, func(ctx context.Context) error {
		return h.build(ctx, bc, task)
	})
}

func (h *CommandHandler) build(ctx context.Context, bc *buildctx.Context, task WatchTask) error {
	script := h.command(bc.Config())
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("no %s command configured", h.name)
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), h.name)
	if err != nil {
		return fmt.Errorf("parse %s command: %w", h.name, err)
	}

	env, err := taskEnv(bc, task)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(task.OutputPath(bc.Cwd())), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(bc.Cwd()),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return fmt.Errorf("create %s interpreter: %w", h.name, err)
	}

	err = runner.Run(ctx, prog)
	if out := strings.TrimSpace(stdout.String()); out != "" {
		bc.Logger().Debug(h.name+" output", "task", task.String(), "stdout", out)
	}
	if err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &CommandError{Command: h.name, ExitCode: int(status), Stderr: tail(stderr.String(), maxStderrLines)}
		}
		return fmt.Errorf("run %s command: %w", h.name, err)
	}
	return nil
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s command exited with status %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func applyHandlerOptions(opts []HandlerOption) handlerOptions {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}
	o.clock = clockOrDefault(o.clock)
	return o
}

// tail returns the last n non-empty lines of s joined by "; ".
func tail(s string, n int) string {
	var lines []string
	for line := range strings.SplitSeq(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "; ")
}
