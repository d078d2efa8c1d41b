package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/hpmbench/internal/app"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// No argument is required: without a sweep path the application falls back
// to ./sweep.hcl and then to the built-in sweep.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("hpmbench", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
hpmbench - Benchmark sweep harness for the NRC-HPM renderer.

Stages the renderer, enumerates every configuration of the sweep into a
manifest, runs the renderer once per configuration and reports the results.

Usage:
  hpmbench [options] [SWEEP_PATH]

Arguments:
  SWEEP_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    Defaults to ./sweep.hcl, or the built-in NRC-HPM sweep if that is missing.

Options:
`)
		flagSet.PrintDefaults()
	}

	sweepFlag := flagSet.String("sweep", "", "Path to the sweep file or directory.")
	sFlag := flagSet.String("s", "", "Path to the sweep file or directory (shorthand).")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health and progress server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Per-run timeout, overriding the sweep file. 0 keeps the sweep's setting.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Enumerate the sweep and show the manifest changes without running anything.")
	noColorFlag := flagSet.Bool("no-color", false, "Disable colored report output.")
	historyFlag := flagSet.Bool("history", false, "List the sweeps stored in the sweep's SQLite history instead of running.")
	historySweepFlag := flagSet.Int64("history-sweep", 0, "Show the stored runs of one sweep from the history. Implies -history.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("expected at most one sweep path, got %d", flagSet.NArg())}
	}

	path := ""
	if *sweepFlag != "" {
		path = *sweepFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Sweep path determined.", "path", path)

	config, err := app.NewConfig(app.Config{
		SweepPath:       path,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		Timeout:         *timeoutFlag,
		DryRun:          *dryRunFlag,
		NoColor:         *noColorFlag,
		History:         *historyFlag || *historySweepFlag != 0,
		HistorySweep:    *historySweepFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
