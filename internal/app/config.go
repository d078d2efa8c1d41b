package app

import (
	"fmt"
	"time"
)

// DefaultSweepFile is picked up from the working directory when no sweep
// path is given.
const DefaultSweepFile = "sweep.hcl"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SweepPath string // file or directory; empty selects DefaultSweepFile or the built-in sweep

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	Timeout         time.Duration // overrides the sweep's run timeout when positive
	DryRun          bool
	NoColor         bool
	History         bool  // list stored sweeps instead of running one
	HistorySweep    int64 // with History, show the runs of this stored sweep
}

func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, ok := logLevels[cfg.LogLevel]; !ok && cfg.LogLevel != "" {
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative, got %s", cfg.Timeout)
	}
	if cfg.HistorySweep < 0 {
		return nil, fmt.Errorf("history sweep id cannot be negative, got %d", cfg.HistorySweep)
	}
	if cfg.History && cfg.DryRun {
		return nil, fmt.Errorf("history and dry run cannot be combined")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck port %d is out of range", cfg.HealthcheckPort)
	}
	return &cfg, nil
}
