package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/vk/hpmbench/internal/config"
	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/defaults"
	"github.com/vk/hpmbench/internal/notify"
	"github.com/vk/hpmbench/internal/process"
)

// NotifierFactory connects the progress notifier described by the sweep.
type NotifierFactory func(ctx context.Context, cfg *config.Notify) (notify.Notifier, error)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW         io.Writer
	logger       *slog.Logger
	config       *Config
	sweep        *config.Sweep
	launcher     process.Launcher
	dialNotifier NotifierFactory
	httpClient   *http.Client
	progress     *progress
	httpServer   *http.Server
}

// Option customises an App.
type Option func(*App)

// WithLauncher replaces the os/exec launcher used to run the renderer.
func WithLauncher(l process.Launcher) Option {
	return func(a *App) { a.launcher = l }
}

// WithNotifierFactory replaces the Socket.IO notifier.
func WithNotifierFactory(f NotifierFactory) Option {
	return func(a *App) { a.dialNotifier = f }
}

// WithHTTPClient sets the client used to upload the report.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) { a.httpClient = c }
}

// NewApp is the constructor for the main application. It configures an
// isolated logger and loads the sweep definition. A sweep that cannot be
// loaded is returned as a StageError for the load stage.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	s, err := loadSweep(ctx, loader, appConfig.SweepPath)
	if err != nil {
		return nil, &StageError{Stage: StageLoad, Err: err}
	}
	if appConfig.Timeout > 0 {
		s.Run.Timeout = appConfig.Timeout
	}
	if s.Report.UploadURL != "" && s.Report.CSV == "" {
		return nil, &StageError{Stage: StageLoad, Err: errors.New("report.upload_url requires report.csv")}
	}
	logger.Debug("Sweep loaded.", "sources", s.Sources, "dimensions", s.Space.Names())

	a := &App{
		outW:         outW,
		logger:       logger,
		config:       appConfig,
		sweep:        s,
		launcher:     process.NewExec(),
		dialNotifier: dialSocketIO,
		httpClient:   http.DefaultClient,
		progress:     &progress{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Sweep returns the loaded sweep definition.
func (a *App) Sweep() *config.Sweep {
	return a.sweep
}

// Progress returns the current sweep progress.
func (a *App) Progress() Progress {
	return a.progress.Snapshot()
}

func loadSweep(ctx context.Context, loader config.Loader, path string) (*config.Sweep, error) {
	logger := ctxlog.FromContext(ctx)
	if path != "" {
		return loader.Load(ctx, path)
	}
	if _, err := os.Stat(DefaultSweepFile); err == nil {
		logger.Info("Using sweep file from the working directory.", "path", DefaultSweepFile)
		return loader.Load(ctx, DefaultSweepFile)
	}
	logger.Info("No sweep file given, using the built-in NRC-HPM sweep.")
	return loader.LoadSource(ctx, defaults.Name, defaults.Source())
}

func dialSocketIO(ctx context.Context, cfg *config.Notify) (notify.Notifier, error) {
	n, err := notify.DialSocketIO(ctx, notify.SocketIOConfig{
		URL:       cfg.URL,
		Namespace: cfg.Namespace,
		Event:     cfg.Event,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// openNotifier connects the configured notifier. Progress events are best
// effort, so a failed connection only disables them.
func (a *App) openNotifier(ctx context.Context) notify.Notifier {
	cfg := a.sweep.Notify
	if cfg == nil || a.dialNotifier == nil {
		return notify.Nop{}
	}
	n, err := a.dialNotifier(ctx, cfg)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Progress notifier unavailable, continuing without it.", "url", cfg.URL, "error", err)
		return notify.Nop{}
	}
	return n
}
