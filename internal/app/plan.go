package app

import (
	"context"
	"fmt"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/sweep"
)

// plan enumerates the sweep and prints how the manifest on disk would
// change, without staging, writing or running anything.
func (a *App) plan(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	path := a.sweep.Run.Manifest

	configs, err := a.sweep.Space.Enumerate()
	if err != nil {
		return &StageError{Stage: StageEnumerate, Err: err}
	}
	diff, err := sweep.PlanDiff(path, configs)
	if err != nil {
		return &StageError{Stage: StageEnumerate, Err: err}
	}
	logger.Debug("Dry run planned.", "count", len(configs), "changed", diff != "")

	fmt.Fprintf(a.outW, "%d configurations across %d dimensions planned for %s\n", len(configs), len(a.sweep.Space.Dimensions), path)
	if diff == "" {
		fmt.Fprintln(a.outW, "Manifest is up to date.")
		return nil
	}
	fmt.Fprint(a.outW, diff)
	return nil
}
