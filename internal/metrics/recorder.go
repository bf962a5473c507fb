// SPDX-License-Identifier: MPL-2.0

package metrics

import "time"

// Resolution outcomes.
const (
	ResolutionApplied ResolutionOutcome = "applied"
	ResolutionStale   ResolutionOutcome = "stale"
	ResolutionFailed  ResolutionOutcome = "failed"
)

// Task result labels.
const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
)

type (
	// ResolutionOutcome labels what happened to one build context resolution.
	ResolutionOutcome string

	// ResultLabel labels one task result.
	ResultLabel string

	// Recorder receives pipeline observations. Implementations must be safe
	// for concurrent use.
	Recorder interface {
		IncSnapshots()
		IncResolution(outcome ResolutionOutcome)
		SetGeneration(gen uint64)
		IncTaskResult(taskType string, result ResultLabel)
		ObserveTaskDuration(taskType string, d time.Duration)
	}

	// NoopRecorder discards every observation.
	NoopRecorder struct{}
)

func (NoopRecorder) IncSnapshots() {}
func (NoopRecorder) IncResolution(ResolutionOutcome) {}
func (NoopRecorder) SetGeneration(uint64) {}
func (NoopRecorder) IncTaskResult(string, ResultLabel) {}
func (NoopRecorder) ObserveTaskDuration(string, time.Duration) {}
