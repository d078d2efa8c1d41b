package executor

import (
	"time"

	"github.com/vk/hpmbench/internal/sweep"
)

// Status is the outcome class of a single run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// RunRecord is the outcome of executing one configuration.
type RunRecord struct {
	Index         int
	Configuration sweep.Configuration
	Status        Status
	ExitCode      int
	Err           error
	// Artifact is the result file the renderer left behind, or empty if
	// none was found after the run.
	Artifact string
	LogPath  string
	Started  time.Time
	Finished time.Time
}

// Duration is the wall-clock time the run took.
func (r RunRecord) Duration() time.Duration {
	if r.Started.IsZero() || r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Succeeded reports whether the renderer exited cleanly.
func (r RunRecord) Succeeded() bool {
	return r.Status == StatusSucceeded
}
