// SPDX-License-Identifier: MPL-2.0

// Package logging provides the leveled logger shared by the watch pipeline and
// task handlers. It wraps charmbracelet/log and adds the silent/debug switches
// the CLI exposes.
package logging
