package stager

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	sources Sources
	target  string
}

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "Debug", "NRC-HPM-Renderer.exe"), "binary", 0o755)
	writeFile(t, filepath.Join(root, "Debug", "glfw3.dll"), "library", 0o644)
	writeFile(t, filepath.Join(root, "data", "volume", "cloud.xyz"), "density", 0o644)
	writeFile(t, filepath.Join(root, "data", "shader", "nrc.comp"), "shader", 0o644)

	return fixture{
		sources: Sources{
			Executable:   filepath.Join(root, "Debug", "NRC-HPM-Renderer.exe"),
			Dependencies: []string{filepath.Join(root, "Debug", "glfw3.dll")},
			DataDir:      filepath.Join(root, "data"),
		},
		target: filepath.Join(root, "bench"),
	}
}

// snapshot records relative path, mode and content of every entry below root.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)
		rel, err := filepath.Rel(root, path)
		require.NoError(t, err)
		info, err := d.Info()
		require.NoError(t, err)
		if d.IsDir() {
			out[rel] = "dir"
			return nil
		}
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		out[rel] = info.Mode().Perm().String() + ":" + string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestStage_CopiesArtifacts(t *testing.T) {
	fx := newFixture(t)

	state, err := Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)

	require.Equal(t, filepath.Join(fx.target, "NRC-HPM-Renderer.exe"), state.Executable)
	require.Equal(t, []string{filepath.Join(fx.target, "glfw3.dll")}, state.Dependencies)
	require.Equal(t, filepath.Join(fx.target, "data"), state.DataDir)

	info, err := os.Stat(state.Executable)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(state.DataDir, "volume", "cloud.xyz"))
	require.NoError(t, err)
	require.Equal(t, "density", string(data))
}

func TestStage_Idempotent(t *testing.T) {
	fx := newFixture(t)

	_, err := Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)
	once := snapshot(t, fx.target)

	_, err = Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)
	twice := snapshot(t, fx.target)

	require.Equal(t, once, twice)
}

func TestStage_RemovesStaleCopies(t *testing.T) {
	fx := newFixture(t)

	_, err := Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)

	stale := filepath.Join(fx.target, "data", "stale.bin")
	writeFile(t, stale, "left over", 0o644)
	writeFile(t, filepath.Join(fx.target, "NRC-HPM-Renderer.exe"), "old build", 0o755)

	_, err = Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)

	_, err = os.Stat(stale)
	require.ErrorIs(t, err, fs.ErrNotExist)
	data, err := os.ReadFile(filepath.Join(fx.target, "NRC-HPM-Renderer.exe"))
	require.NoError(t, err)
	require.Equal(t, "binary", string(data))
}

func TestStage_LeavesUnrelatedFiles(t *testing.T) {
	fx := newFixture(t)
	keep := filepath.Join(fx.target, "configs.csv")
	writeFile(t, keep, "64 2\n", 0o644)

	_, err := Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)

	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	require.Equal(t, "64 2\n", string(data))
}

func TestStage_MissingSource(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Sources)
	}{
		{name: "executable", mutate: func(s *Sources) { s.Executable += ".missing" }},
		{name: "dependency", mutate: func(s *Sources) { s.Dependencies = append(s.Dependencies, "/nonexistent/lib.dll") }},
		{name: "data directory", mutate: func(s *Sources) { s.DataDir += "-missing" }},
		{name: "no executable", mutate: func(s *Sources) { s.Executable = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(t)
			_, err := Stage(context.Background(), fx.sources, fx.target)
			require.NoError(t, err)
			before := snapshot(t, fx.target)

			src := fx.sources
			src.Dependencies = append([]string(nil), src.Dependencies...)
			tc.mutate(&src)

			_, err = Stage(context.Background(), src, fx.target)
			var depErr *DeploymentError
			require.ErrorAs(t, err, &depErr)
			require.Equal(t, before, snapshot(t, fx.target), "a failed validation must not touch the target")
		})
	}
}

func TestStage_DataDirMustBeDirectory(t *testing.T) {
	fx := newFixture(t)
	fx.sources.DataDir = fx.sources.Executable

	_, err := Stage(context.Background(), fx.sources, fx.target)
	var depErr *DeploymentError
	require.ErrorAs(t, err, &depErr)
}

func TestStage_SourceInsideTarget(t *testing.T) {
	fx := newFixture(t)
	fx.target = filepath.Dir(fx.sources.Executable)

	_, err := Stage(context.Background(), fx.sources, fx.target)
	var depErr *DeploymentError
	require.ErrorAs(t, err, &depErr)
}

func TestStage_OptionalArtifacts(t *testing.T) {
	fx := newFixture(t)
	fx.sources.Dependencies = nil
	fx.sources.DataDir = ""

	state, err := Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)
	require.Empty(t, state.Dependencies)
	require.Empty(t, state.DataDir)
}

func TestStage_FollowsSymlinksInDataDir(t *testing.T) {
	fx := newFixture(t)
	outside := filepath.Join(t.TempDir(), "shared")
	writeFile(t, filepath.Join(outside, "textures", "noise.png"), "noise", 0o644)
	writeFile(t, filepath.Join(outside, "lut.bin"), "lut", 0o644)
	require.NoError(t, os.Symlink(filepath.Join(outside, "textures"), filepath.Join(fx.sources.DataDir, "textures")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "lut.bin"), filepath.Join(fx.sources.DataDir, "volume", "lut.bin")))

	state, err := Stage(context.Background(), fx.sources, fx.target)
	require.NoError(t, err)

	for rel, want := range map[string]string{
		filepath.Join("textures", "noise.png"): "noise",
		filepath.Join("volume", "lut.bin"):     "lut",
	} {
		path := filepath.Join(state.DataDir, rel)
		info, err := os.Lstat(path)
		require.NoError(t, err)
		require.True(t, info.Mode().IsRegular(), "%s must be a copy, not a link", rel)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, want, string(data))
	}
}

func TestStage_SymlinkCycleInDataDir(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, os.Symlink(fx.sources.DataDir, filepath.Join(fx.sources.DataDir, "volume", "loop")))

	_, err := Stage(context.Background(), fx.sources, fx.target)
	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	require.ErrorContains(t, err, "symbolic link cycle")
}
