// SPDX-License-Identifier: MPL-2.0

package watch

import "fmt"

// Event kinds reported by PathWatcher.
const (
	EventAdd       EventKind = "add"
	EventAddDir    EventKind = "addDir"
	EventChange    EventKind = "change"
	EventUnlink    EventKind = "unlink"
	EventUnlinkDir EventKind = "unlinkDir"
)

type (
	// EventKind classifies a filesystem notification.
	EventKind string

	// FileEvent is a single notification about one watched path.
	// Path is absolute and cleaned.
	FileEvent struct {
		Kind EventKind
		Path string
	}
)

// String returns the kind name.
func (k EventKind) String() string { return string(k) }

// IsDir reports whether the event concerns a directory.
func (k EventKind) IsDir() bool { return k == EventAddDir || k == EventUnlinkDir }

// String renders the event as "<kind> <path>".
func (e FileEvent) String() string {
	return fmt.Sprintf("%s %s", e.Kind, e.Path)
}
