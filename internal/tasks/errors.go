// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"errors"
	"fmt"
)

var (
	// ErrTaskHandler is the sentinel of every TaskHandlerError.
	ErrTaskHandler = errors.New("task handler failed")

	// ErrNoHandler is returned when a task type has no registered handler.
	ErrNoHandler = errors.New("no handler registered")
)

// TaskHandlerError reports the failure of one task. It matches both
// ErrTaskHandler and the underlying cause with errors.Is.
type TaskHandlerError struct {
	Task WatchTask
	Err  error
}

func (e *TaskHandlerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Task, e.Err)
}

func (e *TaskHandlerError) Unwrap() []error {
	return []error{ErrTaskHandler, e.Err}
}
