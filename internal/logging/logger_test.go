// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      Options
		wantDebug bool
		wantLog   bool
		wantInfo  bool
	}{
		{name: "default", opts: Options{}, wantDebug: false, wantLog: true, wantInfo: true},
		{name: "debug", opts: Options{Debug: true}, wantDebug: true, wantLog: true, wantInfo: true},
		{name: "silent", opts: Options{Silent: true}, wantDebug: false, wantLog: false, wantInfo: false},
		{name: "silent wins over debug", opts: Options{Silent: true, Debug: true}, wantDebug: false, wantLog: false, wantInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			tt.opts.Output = &buf
			l := New(tt.opts)

			l.Debug("debug-line")
			l.Log("log-line")
			l.Info("info-line")
			l.Error("error-line")

			out := buf.String()
			if got := strings.Contains(out, "debug-line"); got != tt.wantDebug {
				t.Errorf("debug present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "log-line"); got != tt.wantLog {
				t.Errorf("log present = %v, want %v\n%s", got, tt.wantLog, out)
			}
			if got := strings.Contains(out, "info-line"); got != tt.wantInfo {
				t.Errorf("info present = %v, want %v\n%s", got, tt.wantInfo, out)
			}
			if !strings.Contains(out, "error-line") {
				t.Errorf("error line must never be suppressed\n%s", out)
			}
		})
	}
}

func TestLoggerSeparator(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(Options{Output: &buf}).Separator()

	if !strings.Contains(buf.String(), strings.Repeat("-", separatorWidth)) {
		t.Errorf("separator missing: %q", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var l *Logger
	l.Debug("x")
	l.Log("x")
	l.Info("x")
	l.Warn("x")
	l.Success("x")
	l.Error("x")
	l.Separator()
	if l.With("k", "v") != nil {
		t.Error("With on nil logger should return nil")
	}
}
