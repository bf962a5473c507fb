// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated value types shared by the CLI and the
// watch pipeline: process exit codes and listen addresses.
package types
