package sweep

import "fmt"

// EmptySpaceError reports a parameter space whose cartesian product is empty.
// Dimension is empty when the space declares no dimensions at all.
type EmptySpaceError struct {
	Dimension string
}

func (e *EmptySpaceError) Error() string {
	if e.Dimension == "" {
		return "parameter space declares no dimensions"
	}
	return fmt.Sprintf("dimension %q has no options, the sweep would be empty", e.Dimension)
}

// InvalidOptionError reports an option token that cannot be represented in a
// manifest line.
type InvalidOptionError struct {
	Dimension string
	Position  int
	Option    string
	Reason    string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("dimension %q option #%d (%q): %s", e.Dimension, e.Position, e.Option, e.Reason)
}

// ManifestMismatchError is returned when the number of lines written to a
// manifest differs from the number of configurations announced for it.
type ManifestMismatchError struct {
	Path     string
	Expected int
	Written  int
}

func (e *ManifestMismatchError) Error() string {
	return fmt.Sprintf("manifest %s: expected %d configurations, wrote %d lines", e.Path, e.Expected, e.Written)
}
