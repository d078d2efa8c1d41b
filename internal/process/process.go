// Package process runs an external program with positional arguments,
// waits for it to terminate or time out, and reports how it ended.
package process

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"github.com/mattn/go-shellwords"
)

// DefaultWaitDelay bounds how long Launch waits for output pipes to drain
// after the child has been killed.
const DefaultWaitDelay = 5 * time.Second

// Invocation describes one run of an external program.
type Invocation struct {
	Path    string
	Args    []string
	Dir     string
	Env     []string // nil inherits the harness environment
	Stdout  io.Writer
	Stderr  io.Writer
	Timeout time.Duration // zero disables the limit
}

// Outcome is what can be observed about a finished process.
type Outcome struct {
	ExitCode int
	Started  time.Time
	Finished time.Time
}

// Duration is the wall-clock time between start and termination.
func (o Outcome) Duration() time.Duration {
	return o.Finished.Sub(o.Started)
}

// Launcher starts a program and blocks until it terminates.
type Launcher interface {
	Launch(ctx context.Context, inv Invocation) (Outcome, error)
}

// Exec is the os/exec backed Launcher.
type Exec struct {
	WaitDelay time.Duration
}

// NewExec returns an Exec launcher with default settings.
func NewExec() *Exec {
	return &Exec{WaitDelay: DefaultWaitDelay}
}

// Launch runs the invocation to completion. Cancelling ctx does not
// interrupt a process that has already started; only inv.Timeout does.
// A non-zero exit or a start failure is returned as *LaunchError, an
// exceeded timeout as *TimeoutError.
func (e *Exec) Launch(ctx context.Context, inv Invocation) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{ExitCode: -1}, err
	}

	runCtx := context.WithoutCancel(ctx)
	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, inv.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, inv.Path, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdout = inv.Stdout
	cmd.Stderr = inv.Stderr
	cmd.WaitDelay = e.WaitDelay

	out := Outcome{ExitCode: -1, Started: time.Now()}
	err := cmd.Run()
	out.Finished = time.Now()
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}

	if inv.Timeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return out, &TimeoutError{Path: inv.Path, Timeout: inv.Timeout}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &LaunchError{Path: inv.Path, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return out, &LaunchError{Path: inv.Path, ExitCode: -1, Err: err}
	}
	return out, nil
}

// ParseCommandLine splits a shell-style command prefix such as
// `nice -n 10` into words. An empty string yields no words.
func ParseCommandLine(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	return shellwords.Parse(raw)
}

// Wrap prefixes the invocation with a wrapper command, so that the original
// program and its arguments become the wrapper's trailing arguments.
func Wrap(inv Invocation, wrapper []string) Invocation {
	if len(wrapper) == 0 {
		return inv
	}
	args := make([]string, 0, len(wrapper)+len(inv.Args))
	args = append(args, wrapper[1:]...)
	args = append(args, inv.Path)
	args = append(args, inv.Args...)
	inv.Path = wrapper[0]
	inv.Args = args
	return inv
}
