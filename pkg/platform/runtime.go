// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
)

const (
	// RuntimeNode builds for Node.js.
	RuntimeNode Runtime = "node"
	// RuntimeWeb builds for browsers.
	RuntimeWeb Runtime = "web"
	// RuntimeAny builds platform-neutral output.
	RuntimeAny Runtime = "*"
)

// ErrInvalidRuntime is the sentinel error wrapped by InvalidRuntimeError.
var ErrInvalidRuntime = errors.New("invalid runtime")

type (
	// Runtime is the target runtime of a build.
	Runtime string

	// InvalidRuntimeError is returned when a Runtime value is not recognized.
	InvalidRuntimeError struct {
		Value Runtime
	}
)

// Error implements the error interface.
func (e *InvalidRuntimeError) Error() string {
	return fmt.Sprintf("invalid runtime %q (valid: node, web, *)", e.Value)
}

// Unwrap returns ErrInvalidRuntime.
func (e *InvalidRuntimeError) Unwrap() error { return ErrInvalidRuntime }

// Validate returns an error if r is not a known runtime. The zero value is
// accepted and means RuntimeAny.
func (r Runtime) Validate() error {
	switch r {
	case "", RuntimeNode, RuntimeWeb, RuntimeAny:
		return nil
	}
	return &InvalidRuntimeError{Value: r}
}

// OrDefault returns r, or RuntimeAny for the zero value.
func (r Runtime) OrDefault() Runtime {
	if r == "" {
		return RuntimeAny
	}
	return r
}

// BundlerPlatform returns the esbuild --platform value for r.
func (r Runtime) BundlerPlatform() string {
	switch r {
	case RuntimeNode:
		return "node"
	case RuntimeWeb:
		return "browser"
	default:
		return "neutral"
	}
}

// String returns the runtime name.
func (r Runtime) String() string { return string(r) }
