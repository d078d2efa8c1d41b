package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/notify"
	"github.com/vk/hpmbench/internal/process"
	"github.com/vk/hpmbench/internal/stager"
	"github.com/vk/hpmbench/internal/sweep"
)

// Options configures an Executor.
type Options struct {
	// Timeout bounds each run; zero means no limit.
	Timeout time.Duration
	// Wrapper is a shell-style command prefix, e.g. "nice -n 10".
	Wrapper string
	// Env is the complete environment for the renderer; nil inherits ours.
	Env []string
	// LogDir receives one output log per run when set.
	LogDir string
	// ArtifactPattern locates each run's result file, see ParseArtifactPattern.
	ArtifactPattern string
	// Notifier receives run progress events; nil disables them.
	Notifier notify.Notifier
}

// Executor runs configurations sequentially through a process.Launcher.
type Executor struct {
	launcher process.Launcher
	timeout  time.Duration
	wrapper  []string
	env      []string
	logDir   string
	artifact *ArtifactPattern
	notifier notify.Notifier
}

// New validates the options and returns an Executor.
func New(launcher process.Launcher, opts Options) (*Executor, error) {
	if launcher == nil {
		return nil, errors.New("executor requires a launcher")
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("run timeout cannot be negative, got %s", opts.Timeout)
	}
	wrapper, err := process.ParseCommandLine(opts.Wrapper)
	if err != nil {
		return nil, fmt.Errorf("invalid wrapper command %q: %w", opts.Wrapper, err)
	}
	artifact, err := ParseArtifactPattern(opts.ArtifactPattern)
	if err != nil {
		return nil, err
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Executor{
		launcher: launcher,
		timeout:  opts.Timeout,
		wrapper:  wrapper,
		env:      opts.Env,
		logDir:   opts.LogDir,
		artifact: artifact,
		notifier: notifier,
	}, nil
}

// Execute invokes the staged renderer once per manifest configuration, in
// order, and returns exactly one record per configuration. The returned
// error is non-nil only when ctx was cancelled; records for configurations
// that were not started are then marked skipped.
func (e *Executor) Execute(ctx context.Context, manifest *sweep.Manifest, state *stager.DeploymentState) ([]RunRecord, error) {
	logger := ctxlog.FromContext(ctx)
	if manifest == nil {
		return nil, errors.New("executor requires a manifest")
	}
	if state == nil || state.Executable == "" {
		return nil, errors.New("executor requires a staged deployment")
	}

	total := manifest.Len()
	if e.logDir != "" {
		if err := os.MkdirAll(e.logDir, 0o755); err != nil {
			return nil, fmt.Errorf("create run log directory: %w", err)
		}
	}

	records := make([]RunRecord, 0, total)
	failed := 0
	for i, cfg := range manifest.Configurations {
		if err := ctx.Err(); err != nil {
			for _, rest := range manifest.Configurations[i:] {
				records = append(records, RunRecord{
					Index:         rest.Index,
					Configuration: rest,
					Status:        StatusSkipped,
					ExitCode:      -1,
					Err:           err,
				})
			}
			logger.Warn("Sweep cancelled, remaining configurations skipped.", "completed", i, "skipped", total-i)
			return records, err
		}

		rec := e.run(ctx, cfg, state, total)
		if !rec.Succeeded() {
			failed++
		}
		records = append(records, rec)
	}

	logger.Info("All configurations executed.", "total", total, "succeeded", total-failed, "failed", failed)
	return records, nil
}

// run executes a single configuration. Every failure is captured on the
// record.
func (e *Executor) run(ctx context.Context, cfg sweep.Configuration, state *stager.DeploymentState, total int) (rec RunRecord) {
	ctx, logger := ctxlog.With(ctx, "index", cfg.Index, "args", cfg.Line())
	rec = RunRecord{Index: cfg.Index, Configuration: cfg, ExitCode: -1}

	logger.Info("▶️ Starting run", "of", total)
	e.notifier.Notify(ctx, notify.Stamp(notify.Event{Type: notify.RunStarted, Index: cfg.Index, Total: total, Args: cfg.Args()}))
	defer func() {
		ev := notify.Event{Type: notify.RunFinished, Index: cfg.Index, Total: total, Args: cfg.Args(), Status: string(rec.Status)}
		if rec.Err != nil {
			ev.Error = rec.Err.Error()
		}
		e.notifier.Notify(ctx, notify.Stamp(ev))
	}()

	artifactPath, err := e.artifact.Resolve(state.TargetDir, cfg)
	if err != nil {
		return fail(logger, rec, err)
	}

	inv := process.Invocation{
		Path:    state.Executable,
		Args:    cfg.Args(),
		Dir:     state.TargetDir,
		Env:     e.env,
		Timeout: e.timeout,
	}
	inv = process.Wrap(inv, e.wrapper)

	if e.logDir != "" {
		rec.LogPath = filepath.Join(e.logDir, logFileName(cfg))
		logFile, err := os.Create(rec.LogPath)
		if err != nil {
			return fail(logger, rec, fmt.Errorf("create run log: %w", err))
		}
		defer logFile.Close()
		inv.Stdout, inv.Stderr = logFile, logFile
	} else {
		inv.Stdout, inv.Stderr = io.Discard, io.Discard
	}

	// A result left over from an earlier sweep must not be mistaken for
	// this run's output.
	if artifactPath != "" {
		if err := os.Remove(artifactPath); err != nil && !os.IsNotExist(err) {
			return fail(logger, rec, fmt.Errorf("remove stale artifact: %w", err))
		}
	}

	outcome, err := e.launcher.Launch(ctx, inv)
	rec.Started, rec.Finished, rec.ExitCode = outcome.Started, outcome.Finished, outcome.ExitCode
	if artifactPath != "" {
		if info, statErr := os.Stat(artifactPath); statErr == nil && info.Mode().IsRegular() {
			rec.Artifact = artifactPath
		}
	}
	if err != nil {
		return fail(logger, rec, err)
	}

	rec.Status = StatusSucceeded
	logger.Info("✅ Finished run", "duration", rec.Duration(), "artifact", rec.Artifact)
	return rec
}

// pathSeparators are replaced in run log names so that every option token
// maps to a single file inside the log directory.
var pathSeparators = strings.NewReplacer("/", "-", "\\", "-", ":", "-")

func logFileName(cfg sweep.Configuration) string {
	return fmt.Sprintf("%04d_%s.log", cfg.Index, pathSeparators.Replace(cfg.Name()))
}

func fail(logger *slog.Logger, rec RunRecord, err error) RunRecord {
	rec.Status = StatusFailed
	rec.Err = err
	logger.Error("❌ Run failed", "exit_code", rec.ExitCode, "error", err)
	return rec
}
