package sweep

import (
	"context"

	"github.com/vk/hpmbench/internal/ctxlog"
)

// Generate enumerates the space and persists it as a fresh manifest at path,
// replacing any previous one. The configuration count is computed and logged
// before anything is written, and the number of written lines is checked
// against it. An invalid space leaves any existing manifest untouched.
func Generate(ctx context.Context, space Space, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)

	count, err := space.Count()
	if err != nil {
		return nil, err
	}
	logger.Info("Generating run configurations.", "dimensions", len(space.Dimensions), "count", count, "manifest", path)

	configs := make([]Configuration, 0, count)
	for c := range space.All() {
		logger.Debug("Configuration enumerated.", "index", c.Index, "args", c.Line())
		configs = append(configs, c)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	written, err := WriteManifest(path, configs)
	if err != nil {
		return nil, err
	}
	if written != count {
		return nil, &ManifestMismatchError{Path: path, Expected: count, Written: written}
	}

	logger.Debug("Manifest written.", "path", path, "lines", written)
	return &Manifest{Path: path, Configurations: configs}, nil
}
