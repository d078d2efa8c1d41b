package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	files := []string{"b.hcl", "a.hcl", "nested/c.hcl", "ignored.txt"}
	for _, f := range files {
		p := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	single := filepath.Join(root, "a.hcl")
	found, err := FindFilesByExtension(".hcl", root, single, filepath.Join(root, "missing"))
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.hcl"),
	}, found)
}

func TestResolvePath(t *testing.T) {
	home, err := homedir.Dir()
	require.NoError(t, err)

	got, err := ResolvePath("~/bench")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "bench"), got)

	got, err = ResolvePath("relative/dir")
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(got))
}
