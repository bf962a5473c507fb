// SPDX-License-Identifier: MPL-2.0

// Package tasks plans watch tasks from a build context's export map and
// supervises the handlers that run them.
//
// Plan turns every eligible export condition into a WatchTask. An Executor
// dispatches each task to the Handler registered for its type, reports every
// Result through the handler, and stops the whole generation on the first
// failure.
package tasks
