// SPDX-License-Identifier: MPL-2.0

// Package pipeline is the watch orchestration layer.
//
// Config file events are folded into snapshots (configset), every snapshot is
// resolved into a build context (Resolver), and the tasks planned from the
// newest context run under a tasks.Executor. Resolutions are tagged with a
// generation; only the newest one may drive tasks, and applying it cancels
// the tasks of the previous generation.
package pipeline
