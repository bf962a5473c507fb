// SPDX-License-Identifier: MPL-2.0

// Package metrics provides optional watch-session metrics.
//
// Components receive a Recorder and default to NoopRecorder, so nothing in
// the pipeline checks whether metrics are enabled. The watch command swaps
// in a PrometheusRecorder and serves it with Serve when --metrics-addr is
// set.
package metrics
