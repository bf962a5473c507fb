// SPDX-License-Identifier: MPL-2.0

// Package watch wraps fsnotify for the two watching jobs of a packup session.
//
// PathWatcher follows a fixed list of candidate paths (package.json and the
// build config files) and reports typed add, change and unlink events for
// them. SourceWatcher follows a source tree and fires a debounced callback
// with the set of changed files, which task handlers use to trigger rebuilds.
package watch
