package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/vk/hpmbench/internal/app"
	"github.com/vk/hpmbench/internal/cli"
	"github.com/vk/hpmbench/internal/hcl"
)

// main is the entrypoint for the hpmbench application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// An interrupt stops the sweep before its next configuration.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			stop()
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(cli.ExitFailure)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	if appConfig.NoColor {
		color.NoColor = true
	}

	// Report an unexpected panic as a failure instead of a crash dump.
	defer func() {
		if r := recover(); r != nil {
			err = &cli.ExitError{Code: cli.ExitFailure, Message: fmt.Sprintf("application panicked: %v", r)}
		}
	}()

	benchApp, err := app.NewApp(outW, appConfig, hcl.NewLoader())
	if err != nil {
		return stageFailure(err)
	}
	return stageFailure(benchApp.Run(ctx))
}

// stageFailure maps a pipeline error to the exit code of a failed stage.
func stageFailure(err error) error {
	if err == nil {
		return nil
	}
	var stageErr *app.StageError
	if errors.As(err, &stageErr) {
		return &cli.ExitError{Code: cli.ExitFailure, Message: fmt.Sprintf("hpmbench: %v", stageErr)}
	}
	return err
}
