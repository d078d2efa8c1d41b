package process

import (
	"fmt"
	"time"
)

// LaunchError reports a process that could not be started or that exited
// with a non-zero status. ExitCode is -1 when the process never ran.
type LaunchError struct {
	Path     string
	ExitCode int
	Err      error
}

func (e *LaunchError) Error() string {
	if e.ExitCode < 0 {
		return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Path, e.ExitCode)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TimeoutError reports a process that was killed after exceeding its
// allotted wall-clock duration.
type TimeoutError struct {
	Path    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s exceeded timeout of %s and was terminated", e.Path, e.Timeout)
}
