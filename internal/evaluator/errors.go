package evaluator

import "fmt"

// ArtifactMissingError reports a run whose result artifact could not be
// found or parsed.
type ArtifactMissingError struct {
	Index int
	Path  string
	Err   error
}

func (e *ArtifactMissingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration %d: no result artifact: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("configuration %d: result artifact %s: %v", e.Index, e.Path, e.Err)
}

func (e *ArtifactMissingError) Unwrap() error { return e.Err }
