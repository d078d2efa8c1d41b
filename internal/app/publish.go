package app

import (
	"context"
	"fmt"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/evaluator"
	"github.com/vk/hpmbench/internal/report"
)

// publish prints the report table and writes every configured report sink.
func (a *App) publish(ctx context.Context, rep *evaluator.Report, info report.SweepInfo) error {
	logger := ctxlog.FromContext(ctx)
	sinks := a.sweep.Report

	colorize := !a.config.NoColor && report.IsTerminal(a.outW)
	if err := report.WriteTable(a.outW, rep, colorize); err != nil {
		return fmt.Errorf("print report: %w", err)
	}

	if sinks.CSV != "" {
		if err := report.WriteCSV(sinks.CSV, rep); err != nil {
			return err
		}
		logger.Info("CSV report written.", "path", sinks.CSV)
	}
	if sinks.YAML != "" {
		if err := report.WriteYAML(sinks.YAML, rep); err != nil {
			return err
		}
		logger.Info("YAML report written.", "path", sinks.YAML)
	}
	if sinks.SQLite != "" {
		store, err := report.OpenStore(ctx, sinks.SQLite)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Save(ctx, info, rep)
		if err != nil {
			return fmt.Errorf("save sweep history: %w", err)
		}
		logger.Info("Sweep saved to history.", "path", sinks.SQLite, "sweep_id", id)
	}
	if sinks.UploadURL != "" {
		if err := report.Upload(ctx, a.httpClient, sinks.CSV, sinks.UploadURL); err != nil {
			return err
		}
	}
	return nil
}
