// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// separatorWidth is the width of the rule printed before a rebuild.
const separatorWidth = 80

var (
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
)

type (
	// Options configures a Logger.
	Options struct {
		// Silent suppresses every message below error level.
		Silent bool
		// Debug enables debug messages. Ignored when Silent is set.
		Debug bool
		// Output defaults to os.Stderr.
		Output io.Writer
		// Prefix is prepended to every line (e.g. "packup").
		Prefix string
	}

	// Logger is the leveled logger contract used by the pipeline:
	// Debug, Log, Info and Error, plus Warn and Success for task reports.
	// A nil *Logger discards everything.
	Logger struct {
		base   *log.Logger
		silent bool
	}
)

// New creates a Logger from opts.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	if opts.Silent {
		level = log.ErrorLevel
	}

	base := log.NewWithOptions(out, log.Options{
		Level:  level,
		Prefix: opts.Prefix,
	})

	return &Logger{base: base, silent: opts.Silent}
}

// Discard returns a Logger that drops every message.
func Discard() *Logger {
	return New(Options{Silent: true, Output: io.Discard})
}

// Debug logs verbose diagnostics, shown only with --debug.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.base.Debug(msg, keyvals...)
}

// Log prints an unleveled line. Suppressed when silent.
func (l *Logger) Log(msg string, keyvals ...any) {
	if l == nil || l.silent {
		return
	}
	l.base.Print(msg, keyvals...)
}

// Info logs a normal progress message.
func (l *Logger) Info(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.base.Info(msg, keyvals...)
}

// Warn logs a recoverable problem.
func (l *Logger) Warn(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.base.Warn(msg, keyvals...)
}

// Success logs a completed unit of work at info level with a check mark.
func (l *Logger) Success(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.base.Info(successStyle.Render("✔")+" "+msg, keyvals...)
}

// Error logs a failure. Never suppressed.
func (l *Logger) Error(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	l.base.Error(msg, keyvals...)
}

// Separator prints a horizontal rule that visually groups the output of one
// rebuild.
func (l *Logger) Separator() {
	l.Log(separatorStyle.Render(strings.Repeat("-", separatorWidth)))
}

// With returns a child logger that attaches keyvals to every message.
func (l *Logger) With(keyvals ...any) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{base: l.base.With(keyvals...), silent: l.silent}
}
