// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorContextBuild(t *testing.T) {
	t.Parallel()

	cause := errors.New("toml: expected value")
	tests := []struct {
		name    string
		ctx     *ErrorContext
		wantNil bool
		wantMsg string
	}{
		{
			name:    "no operation",
			ctx:     NewErrorContext().WithResource("packup.config.toml").Wrap(cause),
			wantNil: true,
		},
		{
			name:    "operation only",
			ctx:     NewErrorContext().WithOperation("load build config"),
			wantMsg: "failed to load build config",
		},
		{
			name:    "operation and resource",
			ctx:     NewErrorContext().WithOperation("load build config").WithResource("packup.config.toml"),
			wantMsg: "failed to load build config: packup.config.toml",
		},
		{
			name:    "operation, resource and cause",
			ctx:     NewErrorContext().WithOperation("load build config").WithResource("packup.config.toml").Wrap(cause),
			wantMsg: "failed to load build config: packup.config.toml: toml: expected value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ae := tt.ctx.Build()
			err := tt.ctx.BuildError()
			if tt.wantNil {
				if ae != nil || err != nil {
					t.Fatalf("Build() = %v, BuildError() = %v, want nil", ae, err)
				}
				return
			}
			if ae == nil || err == nil {
				t.Fatalf("Build() = %v, BuildError() = %v, want non-nil", ae, err)
			}
			if got := err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestActionableErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("open packup.config.yaml: %w", fs.ErrPermission)
	err := NewErrorContext().WithOperation("load build config").Wrap(cause).BuildError()

	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("errors.Is(err, fs.ErrPermission) = false for %v", err)
	}
	var ae *ActionableError
	if !errors.As(err, &ae) || ae.Cause != cause {
		t.Errorf("errors.As() did not expose the cause: %v", err)
	}
}

func TestActionableErrorFormat(t *testing.T) {
	t.Parallel()

	inner := errors.New("runtime must be node, web or *")
	err := NewErrorContext().
		WithOperation("validate build config").
		WithResource("packup.config.cue").
		WithSuggestion("Set runtime to one of node, web or *").
		Wrap(fmt.Errorf("invalid runtime %q: %w", "deno", inner)).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "\n  • Set runtime to one of node, web or *") {
		t.Errorf("Format(false) = %q, missing suggestion bullet", plain)
	}
	if strings.Contains(plain, "Error chain:") || strings.Contains(plain, "packup explain") {
		t.Errorf("Format(false) = %q, want no chain and no explain pointer", plain)
	}

	verbose := err.Format(true)
	for _, want := range []string{
		"Error chain:",
		`1. invalid runtime "deno": runtime must be node, web or *`,
		"2. runtime must be node, web or *",
	} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) = %q, missing %q", verbose, want)
		}
	}
}

func TestActionableErrorFormatWithIssue(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load build config").
		WithResource("packup.config.yaml").
		WithSuggestion("Check the file syntax for its format").
		WithIssue(BuildConfigId).
		Wrap(errors.New("yaml: line 2: mapping values are not allowed")).
		Build()

	got := err.Format(false)
	for _, want := range []string{
		"failed to load build config: packup.config.yaml: yaml: line 2",
		"• Check the file syntax for its format",
		"• run 'packup explain build-config' for details",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Format() = %q, missing %q", got, want)
		}
	}
	if len(err.Suggestions) != 1 {
		t.Errorf("Format() mutated Suggestions: %v", err.Suggestions)
	}
}

func TestErrorContextBuildCopiesSuggestions(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("load build config").WithSuggestion("first")
	first := ctx.Build()
	second := ctx.WithSuggestion("second").Build()

	if len(first.Suggestions) != 1 {
		t.Errorf("first.Suggestions = %v, want one entry", first.Suggestions)
	}
	if len(second.Suggestions) != 2 {
		t.Errorf("second.Suggestions = %v, want two entries", second.Suggestions)
	}
}
