package config

import "context"

// Loader is the interface for a format-specific sweep loader.
type Loader interface {
	// Load reads every sweep file found below the given paths and merges
	// them into one model.
	Load(ctx context.Context, paths ...string) (*Sweep, error)

	// LoadSource parses an in-memory sweep definition. The name is used
	// in diagnostics only.
	LoadSource(ctx context.Context, name string, src []byte) (*Sweep, error)
}
