// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrInvalidListenAddr is the sentinel error wrapped by InvalidListenAddrError.
var ErrInvalidListenAddr = errors.New("invalid listen address")

type (
	// ListenAddr is a host:port pair a server binds to, e.g. "127.0.0.1:9464"
	// or ":9464". The zero value ("") means "do not listen".
	ListenAddr string

	// InvalidListenAddrError is returned when a non-empty ListenAddr cannot be
	// split into host and port, or the port is outside 1-65535.
	InvalidListenAddrError struct {
		Value  ListenAddr
		Reason string
	}
)

// String returns the string representation of the ListenAddr.
func (a ListenAddr) String() string { return string(a) }

// IsZero reports whether no address was configured.
func (a ListenAddr) IsZero() bool { return a == "" }

// Validate returns an error if the address is set but malformed.
func (a ListenAddr) Validate() error {
	if a.IsZero() {
		return nil
	}
	_, portStr, err := net.SplitHostPort(string(a))
	if err != nil {
		return &InvalidListenAddrError{Value: a, Reason: err.Error()}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return &InvalidListenAddrError{Value: a, Reason: "port must be 1-65535"}
	}
	return nil
}

// Error implements the error interface for InvalidListenAddrError.
func (e *InvalidListenAddrError) Error() string {
	return fmt.Sprintf("invalid listen address %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidListenAddr for errors.Is() compatibility.
func (e *InvalidListenAddrError) Unwrap() error { return ErrInvalidListenAddr }
