package app

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/evaluator"
	"github.com/vk/hpmbench/internal/executor"
	"github.com/vk/hpmbench/internal/notify"
	"github.com/vk/hpmbench/internal/report"
	"github.com/vk/hpmbench/internal/stager"
	"github.com/vk/hpmbench/internal/sweep"
)

// Run executes the benchmark pipeline. Each stage starts only after the
// previous one succeeded; the first failure halts the pipeline and is
// returned as a *StageError.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.History {
		return a.history(ctx)
	}
	if a.config.DryRun {
		return a.plan(ctx)
	}

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer(ctx)
		defer a.closeHealthCheckServer(ctx)
	}

	notifier := notify.Multi{a.progress, a.openNotifier(ctx)}
	defer func() {
		if err := notifier.Close(); err != nil {
			a.logger.Warn("Closing progress notifier failed.", "error", err)
		}
	}()

	started := time.Now()
	a.logger.Info("🚀 Starting NRC-HPM-Bench", "sources", a.sweep.Sources)

	var state *stager.DeploymentState
	err := a.stage(ctx, notifier, StageDeploy, func(ctx context.Context) (err error) {
		d := a.sweep.Deployment
		state, err = stager.Stage(ctx, stager.Sources{
			Executable:   d.Executable,
			Dependencies: d.Dependencies,
			DataDir:      d.DataDir,
		}, d.TargetDir)
		return err
	})
	if err != nil {
		return err
	}

	var manifest *sweep.Manifest
	err = a.stage(ctx, notifier, StageEnumerate, func(ctx context.Context) error {
		written, err := sweep.Generate(ctx, a.sweep.Space, a.sweep.Run.Manifest)
		if err != nil {
			return err
		}
		// Execute what was persisted, not what is still in memory.
		manifest, err = sweep.ReadManifest(written.Path)
		return err
	})
	if err != nil {
		return err
	}

	var records []executor.RunRecord
	err = a.stage(ctx, notifier, StageExecute, func(ctx context.Context) error {
		run := a.sweep.Run
		exec, err := executor.New(a.launcher, executor.Options{
			Timeout:         run.Timeout,
			Wrapper:         run.Wrapper,
			Env:             environ(run.Env),
			LogDir:          run.LogDir,
			ArtifactPattern: run.Artifact,
			Notifier:        notifier,
		})
		if err != nil {
			return err
		}
		records, err = exec.Execute(ctx, manifest, state)
		return err
	})
	if err != nil {
		return err
	}

	var rep *evaluator.Report
	err = a.stage(ctx, notifier, StageEvaluate, func(ctx context.Context) (err error) {
		rep, err = evaluator.Evaluate(ctx, a.sweep.Space.Names(), records)
		return err
	})
	if err != nil {
		return err
	}

	err = a.stage(ctx, notifier, StageReport, func(ctx context.Context) error {
		return a.publish(ctx, rep, report.SweepInfo{Manifest: manifest.Path, Started: started, Finished: time.Now()})
	})
	if err != nil {
		return err
	}

	a.logger.Info("🏁 Benchmark finished.", "duration", time.Since(started), "configurations", len(rep.Rows))
	return nil
}

// stage runs one pipeline stage and publishes its start and end.
func (a *App) stage(ctx context.Context, notifier notify.Notifier, name Stage, fn func(context.Context) error) error {
	ctx, logger := ctxlog.With(ctx, "stage", string(name))
	start := time.Now()

	logger.Info("▶️ Stage started")
	notifier.Notify(ctx, notify.Stamp(notify.Event{Type: notify.StageStarted, Stage: string(name)}))

	err := fn(ctx)

	ev := notify.Event{Type: notify.StageFinished, Stage: string(name), Status: "succeeded"}
	if err != nil {
		ev.Status, ev.Error = "failed", err.Error()
	}
	notifier.Notify(ctx, notify.Stamp(ev))

	if err != nil {
		logger.Error("❌ Stage failed", "error", err)
		return &StageError{Stage: name, Err: err}
	}
	logger.Info("✅ Stage finished", "duration", time.Since(start))
	return nil
}

// environ returns the renderer environment: ours plus the sweep's
// variables, or nil to inherit ours unchanged.
func environ(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	env := os.Environ()
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, extra[k]))
	}
	return env
}
