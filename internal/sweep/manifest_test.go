package sweep

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func widthDepthSpace() Space {
	return NewSpace(
		Dimension{Name: "width", Options: []string{"64", "128"}},
		Dimension{Name: "depth", Options: []string{"2", "4"}},
	)
}

func TestGenerate_MatchesGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs.csv")

	manifest, err := Generate(context.Background(), widthDepthSpace(), path)
	require.NoError(t, err)
	require.Equal(t, 4, manifest.Len())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("testdata", "width_depth.golden"))
	require.NoError(t, err)
	require.Equal(t, string(want), string(got))
}

func TestGenerate_LineCountEqualsCount(t *testing.T) {
	space := NewSpace(
		Dimension{Name: "a", Options: []string{"1", "2", "3"}},
		Dimension{Name: "b", Options: []string{"x", "y"}},
		Dimension{Name: "c", Options: []string{"p", "q", "r", "s"}},
	)
	path := filepath.Join(t.TempDir(), "configs.csv")

	_, err := Generate(context.Background(), space, path)
	require.NoError(t, err)

	count, err := space.Count()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, count, strings.Count(string(data), "\n"))
}

func TestGenerate_ByteIdenticalAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")

	_, err := Generate(context.Background(), widthDepthSpace(), first)
	require.NoError(t, err)
	_, err = Generate(context.Background(), widthDepthSpace(), second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	require.True(t, bytes.Equal(a, b))
}

func TestGenerate_ReplacesPriorManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale line\nanother\nthird\nfourth\nfifth\n"), 0o644))

	_, err := Generate(context.Background(), widthDepthSpace(), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "64 2\n64 4\n128 2\n128 4\n", string(data))
}

func TestGenerate_EmptySpaceWritesNothing(t *testing.T) {
	dir := t.TempDir()
	fresh := filepath.Join(dir, "fresh.csv")
	existing := filepath.Join(dir, "existing.csv")
	require.NoError(t, os.WriteFile(existing, []byte("64 2\n"), 0o644))

	space := NewSpace(
		Dimension{Name: "width", Options: []string{"64"}},
		Dimension{Name: "depth"},
	)

	_, err := Generate(context.Background(), space, fresh)
	var emptyErr *EmptySpaceError
	require.ErrorAs(t, err, &emptyErr)
	_, statErr := os.Stat(fresh)
	require.True(t, errors.Is(statErr, os.ErrNotExist), "no manifest may be written for an empty space")

	_, err = Generate(context.Background(), space, existing)
	require.ErrorAs(t, err, &emptyErr)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	require.Equal(t, "64 2\n", string(data))
}

func TestReadManifest_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs.csv")
	generated, err := Generate(context.Background(), widthDepthSpace(), path)
	require.NoError(t, err)

	read, err := ReadManifest(path)
	require.NoError(t, err)
	require.Equal(t, generated.Configurations, read.Configurations)
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "blank line", input: "64 2\n\n128 4\n"},
		{name: "ragged widths", input: "64 2\n128\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.input))
			require.Error(t, err)
		})
	}
}

func TestDecode_ToleratesCRLF(t *testing.T) {
	configs, err := Decode(strings.NewReader("64 2\r\n128 4\r\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"64", "2"}, configs[0].Values)
	require.Equal(t, 1, configs[1].Index)
}

func TestReadManifest_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	_, err := ReadManifest(path)
	require.Error(t, err)
}
