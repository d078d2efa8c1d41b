package process

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vk/hpmbench/internal/testutil"
)

func TestMain(m *testing.M) {
	testutil.RunFakeRendererIfRequested()
	os.Exit(m.Run())
}

func fakeInvocation(t *testing.T, args ...string) Invocation {
	t.Helper()
	return Invocation{
		Path: os.Args[0],
		Args: args,
		Dir:  t.TempDir(),
		Env:  testutil.FakeRendererEnviron(""),
	}
}

func TestExec_Success(t *testing.T) {
	inv := fakeInvocation(t, "64", "2")
	stdout := &bytes.Buffer{}
	inv.Stdout = stdout

	out, err := NewExec().Launch(context.Background(), inv)
	require.NoError(t, err)
	require.Equal(t, 0, out.ExitCode)
	require.False(t, out.Finished.Before(out.Started))
	require.Contains(t, stdout.String(), "Starting NRC-HPM-Renderer 64 2")

	_, err = os.Stat(filepath.Join(inv.Dir, testutil.FakeArtifact([]string{"64", "2"})))
	require.NoError(t, err, "renderer must run in the invocation directory")
}

func TestExec_NonZeroExit(t *testing.T) {
	inv := fakeInvocation(t, testutil.TokenFail)
	stderr := &bytes.Buffer{}
	inv.Stderr = stderr

	out, err := NewExec().Launch(context.Background(), inv)
	var launchErr *LaunchError
	require.ErrorAs(t, err, &launchErr)
	require.Equal(t, 3, launchErr.ExitCode)
	require.Equal(t, 3, out.ExitCode)
	require.Contains(t, stderr.String(), "Argument count")
}

func TestExec_StartFailure(t *testing.T) {
	inv := Invocation{Path: filepath.Join(t.TempDir(), "does-not-exist")}

	_, err := NewExec().Launch(context.Background(), inv)
	var launchErr *LaunchError
	require.ErrorAs(t, err, &launchErr)
	require.Equal(t, -1, launchErr.ExitCode)
}

func TestExec_Timeout(t *testing.T) {
	inv := fakeInvocation(t, testutil.TokenHang)
	inv.Timeout = 100 * time.Millisecond

	start := time.Now()
	_, err := NewExec().Launch(context.Background(), inv)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, inv.Timeout, timeoutErr.Timeout)
	require.Less(t, time.Since(start), 30*time.Second)
}

func TestExec_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExec().Launch(ctx, fakeInvocation(t, "64"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestExec_CancelDoesNotPreemptRunningProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inv := fakeInvocation(t, testutil.TokenSlow, "64")
	// The renderer prints before it sleeps, so the cancel lands mid-run.
	inv.Stdout = writerFunc(func(p []byte) (int, error) {
		cancel()
		return len(p), nil
	})

	out, err := NewExec().Launch(ctx, inv)
	require.NoError(t, err)
	require.Equal(t, 0, out.ExitCode)
}

func TestParseCommandLine(t *testing.T) {
	words, err := ParseCommandLine(`nice -n 10 "taskset" '-c 0'`)
	require.NoError(t, err)
	require.Equal(t, []string{"nice", "-n", "10", "taskset", "-c 0"}, words)

	words, err = ParseCommandLine("")
	require.NoError(t, err)
	require.Empty(t, words)
}

func TestWrap(t *testing.T) {
	inv := Invocation{Path: "/bench/renderer", Args: []string{"64", "2"}}

	wrapped := Wrap(inv, []string{"nice", "-n", "10"})
	require.Equal(t, "nice", wrapped.Path)
	require.Equal(t, []string{"-n", "10", "/bench/renderer", "64", "2"}, wrapped.Args)

	require.Equal(t, inv, Wrap(inv, nil))
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
