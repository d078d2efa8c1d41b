package stager

import "fmt"

// DeploymentError reports a required source artifact that is missing or
// unusable. Nothing at the target has been modified when it is returned.
type DeploymentError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("deployment source %s (%s): %v", e.Artifact, e.Path, e.Err)
}

func (e *DeploymentError) Unwrap() error { return e.Err }

// FilesystemError reports a removal or copy that could not be completed.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }
