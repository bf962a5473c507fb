// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "watching is valid", value: ExitWatching, wantValid: true},
		{name: "fatal is valid", value: ExitFatal, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Fatalf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodeIsSuccess(t *testing.T) {
	t.Parallel()

	if !ExitWatching.IsSuccess() {
		t.Error("ExitWatching should be success")
	}
	if ExitFatal.IsSuccess() {
		t.Error("ExitFatal should not be success")
	}
	if got := ExitFatal.String(); got != "1" {
		t.Errorf("ExitFatal.String() = %q, want %q", got, "1")
	}
}

func TestListenAddrValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr    ListenAddr
		wantErr bool
	}{
		{"", false},
		{":9464", false},
		{"127.0.0.1:9464", false},
		{"[::1]:8080", false},
		{"localhost", true},
		{":0", true},
		{":70000", true},
		{":http", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.addr), func(t *testing.T) {
			t.Parallel()

			err := tt.addr.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ListenAddr(%q).Validate() error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidListenAddr) {
				t.Errorf("error does not wrap ErrInvalidListenAddr: %v", err)
			}
		})
	}
}
