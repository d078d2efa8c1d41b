package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/report"
)

// history prints the sweeps stored in the SQLite history, or the runs of
// one stored sweep, without staging or running anything.
func (a *App) history(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	path := a.sweep.Report.SQLite
	if path == "" {
		return &StageError{Stage: StageReport, Err: errors.New("no sqlite history configured in the report block")}
	}

	store, err := report.OpenStore(ctx, path)
	if err != nil {
		return &StageError{Stage: StageReport, Err: err}
	}
	defer store.Close()

	colorize := !a.config.NoColor && report.IsTerminal(a.outW)
	if id := a.config.HistorySweep; id > 0 {
		runs, err := store.Runs(ctx, id)
		if err != nil {
			return &StageError{Stage: StageReport, Err: fmt.Errorf("load sweep %d: %w", id, err)}
		}
		if len(runs) == 0 {
			return &StageError{Stage: StageReport, Err: fmt.Errorf("sweep %d not found in %s", id, path)}
		}
		logger.Debug("Stored sweep loaded.", "sweep_id", id, "runs", len(runs))
		return report.WriteRuns(a.outW, runs, colorize)
	}

	sweeps, err := store.Sweeps(ctx)
	if err != nil {
		return &StageError{Stage: StageReport, Err: fmt.Errorf("list sweeps: %w", err)}
	}
	logger.Debug("Sweep history loaded.", "sweeps", len(sweeps))
	return report.WriteSweeps(a.outW, sweeps, colorize)
}
