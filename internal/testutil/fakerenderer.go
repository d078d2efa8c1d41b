package testutil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	// FakeRendererEnv switches a test binary into fake renderer mode.
	FakeRendererEnv = "HPMBENCH_FAKE_RENDERER"
	// JournalEnv names the file the fake renderer appends its runs to.
	JournalEnv = "HPMBENCH_FAKE_JOURNAL"
)

// Tokens understood by the fake renderer.
const (
	TokenFail     = "fail"     // exit with status 3
	TokenHang     = "hang"     // sleep far longer than any test timeout
	TokenNoResult = "noresult" // succeed without writing a result file
	TokenSlow     = "slow"     // sleep briefly before succeeding
)

// FakeArtifact is the result file the fake renderer writes for args,
// relative to its working directory.
func FakeArtifact(args []string) string {
	return filepath.Join("results", strings.Join(args, "_")+".csv")
}

// RunFakeRendererIfRequested must be called first thing in TestMain. When
// the test binary was re-executed as a renderer it behaves like one and
// exits; otherwise it returns immediately.
func RunFakeRendererIfRequested() {
	if os.Getenv(FakeRendererEnv) != "1" {
		return
	}
	os.Exit(fakeRender(os.Args[1:]))
}

// FakeRendererEnviron returns the environment that turns the current test
// binary into a fake renderer which journals its runs to journal.
func FakeRendererEnviron(journal string) []string {
	return append(os.Environ(), FakeRendererEnv+"=1", JournalEnv+"="+journal)
}

func fakeRender(args []string) int {
	start := time.Now()
	fmt.Println("Starting NRC-HPM-Renderer", strings.Join(args, " "))

	code := 0
	for _, a := range args {
		switch a {
		case TokenFail:
			fmt.Fprintln(os.Stderr, "Argument count does not match requirements for AppConfig")
			code = 3
		case TokenHang:
			time.Sleep(time.Minute)
		case TokenSlow:
			time.Sleep(20 * time.Millisecond)
		}
	}

	if code == 0 && !contains(args, TokenNoResult) {
		path := FakeArtifact(args)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 10
		}
		body := "frame,mse,rel_bias\n1,0.25,0.1\n2," + strconv.Itoa(len(args)) + ",0.05\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return 11
		}
	}

	if journal := os.Getenv(JournalEnv); journal != "" {
		f, err := os.OpenFile(journal, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return 12
		}
		fmt.Fprintf(f, "%d %d %s\n", start.UnixNano(), time.Now().UnixNano(), strings.Join(args, " "))
		f.Close()
	}
	return code
}

func contains(args []string, token string) bool {
	for _, a := range args {
		if a == token {
			return true
		}
	}
	return false
}

// ReadJournal returns the runs recorded by the fake renderer, in the order
// they finished. A missing journal means no run happened.
func ReadJournal(t *testing.T, path string) []ExecutionRecord {
	t.Helper()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	defer f.Close()

	var records []ExecutionRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		require.GreaterOrEqual(t, len(fields), 2, "malformed journal line %q", scanner.Text())
		start, err := strconv.ParseInt(fields[0], 10, 64)
		require.NoError(t, err)
		end, err := strconv.ParseInt(fields[1], 10, 64)
		require.NoError(t, err)
		records = append(records, ExecutionRecord{
			Args:  fields[2:],
			Start: time.Unix(0, start),
			End:   time.Unix(0, end),
		})
	}
	require.NoError(t, scanner.Err())
	return records
}
