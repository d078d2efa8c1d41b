// Package stager prepares a clean, reproducible on-disk deployment of the
// external renderer before a sweep runs. Staging is idempotent: every staged
// artifact is removed and copied again from its source on each call.
package stager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/fsutil"
)

// Sources names the artifacts to deploy. Executable is required; the
// dependency list and the data directory are optional.
type Sources struct {
	Executable   string
	Dependencies []string
	DataDir      string
}

// DeploymentState describes the staged artifacts. All paths are absolute.
type DeploymentState struct {
	TargetDir    string
	Executable   string
	Dependencies []string
	DataDir      string
}

type artifact struct {
	kind   string
	source string
	target string
	isDir  bool
}

// Stage removes any previously staged copies below targetDir and copies the
// sources into it. Sources are checked before anything is removed, so a
// DeploymentError leaves the target as it was.
func Stage(ctx context.Context, src Sources, targetDir string) (*DeploymentState, error) {
	logger := ctxlog.FromContext(ctx)

	target, err := fsutil.ResolvePath(targetDir)
	if err != nil {
		return nil, &FilesystemError{Op: "resolve", Path: targetDir, Err: err}
	}

	plan, err := planArtifacts(src, target)
	if err != nil {
		return nil, err
	}
	for _, a := range plan {
		if err := checkSource(a); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, &FilesystemError{Op: "create", Path: target, Err: err}
	}

	logger.Info("Removing old copies of executable file and data directory.", "target_dir", target)
	for _, a := range plan {
		if err := removeTarget(a); err != nil {
			return nil, err
		}
	}

	for _, a := range plan {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Info("Copying "+a.kind+".", "source", a.source, "target", a.target)
		if a.isDir {
			err = copyTree(a.source, a.target)
		} else {
			err = copyFile(a.source, a.target)
		}
		if err != nil {
			return nil, err
		}
	}

	state := &DeploymentState{TargetDir: target}
	for _, a := range plan {
		switch a.kind {
		case kindExecutable:
			state.Executable = a.target
		case kindDependency:
			state.Dependencies = append(state.Dependencies, a.target)
		case kindData:
			state.DataDir = a.target
		}
	}
	logger.Debug("Deployment staged.", "executable", state.Executable, "dependencies", len(state.Dependencies), "data_dir", state.DataDir)
	return state, nil
}

const (
	kindExecutable = "executable file"
	kindDependency = "runtime dependency"
	kindData       = "data directory"
)

func planArtifacts(src Sources, target string) ([]artifact, error) {
	if src.Executable == "" {
		return nil, &DeploymentError{Artifact: kindExecutable, Err: errors.New("no executable configured")}
	}

	var plan []artifact
	add := func(kind, path string, isDir bool) error {
		abs, err := fsutil.ResolvePath(path)
		if err != nil {
			return &DeploymentError{Artifact: kind, Path: path, Err: err}
		}
		a := artifact{kind: kind, source: abs, target: filepath.Join(target, filepath.Base(abs)), isDir: isDir}
		if a.source == a.target {
			return &DeploymentError{Artifact: kind, Path: path, Err: errors.New("source and staged location are the same path")}
		}
		for _, prev := range plan {
			if prev.target == a.target {
				return &DeploymentError{Artifact: kind, Path: path, Err: fmt.Errorf("staged name collides with %s", prev.source)}
			}
		}
		plan = append(plan, a)
		return nil
	}

	if err := add(kindExecutable, src.Executable, false); err != nil {
		return nil, err
	}
	for _, dep := range src.Dependencies {
		if err := add(kindDependency, dep, false); err != nil {
			return nil, err
		}
	}
	if src.DataDir != "" {
		if err := add(kindData, src.DataDir, true); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func checkSource(a artifact) error {
	info, err := os.Stat(a.source)
	if err != nil {
		return &DeploymentError{Artifact: a.kind, Path: a.source, Err: err}
	}
	if a.isDir && !info.IsDir() {
		return &DeploymentError{Artifact: a.kind, Path: a.source, Err: errors.New("not a directory")}
	}
	if !a.isDir && !info.Mode().IsRegular() {
		return &DeploymentError{Artifact: a.kind, Path: a.source, Err: errors.New("not a regular file")}
	}
	return nil
}

// removeTarget deletes a staged artifact. A missing target is not an error.
func removeTarget(a artifact) error {
	var err error
	if a.isDir {
		err = os.RemoveAll(a.target)
	} else {
		err = os.Remove(a.target)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &FilesystemError{Op: "remove", Path: a.target, Err: err}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &FilesystemError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &FilesystemError{Op: "stat", Path: src, Err: err}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &FilesystemError{Op: "create", Path: dst, Err: err}
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &FilesystemError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return &FilesystemError{Op: "close", Path: dst, Err: err}
	}
	// OpenFile applies the umask; restore the source permissions explicitly.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return &FilesystemError{Op: "chmod", Path: dst, Err: err}
	}
	return nil
}

// copyTree copies the directory src to dst. Symbolic links are followed, so
// the staged tree holds the linked content; a link back to one of its own
// ancestor directories is an error.
func copyTree(src, dst string) error {
	return copyDir(src, dst, nil)
}

func copyDir(src, dst string, ancestors []string) error {
	real, err := filepath.EvalSymlinks(src)
	if err != nil {
		return &FilesystemError{Op: "resolve", Path: src, Err: err}
	}
	if slices.Contains(ancestors, real) {
		return &FilesystemError{Op: "copy", Path: src, Err: errors.New("symbolic link cycle")}
	}
	ancestors = append(ancestors, real)

	if err := os.MkdirAll(dst, 0o755); err != nil {
		return &FilesystemError{Op: "create", Path: dst, Err: err}
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return &FilesystemError{Op: "read", Path: src, Err: err}
	}
	for _, entry := range entries {
		from := filepath.Join(src, entry.Name())
		to := filepath.Join(dst, entry.Name())
		info, err := os.Stat(from)
		if err != nil {
			return &FilesystemError{Op: "stat", Path: from, Err: err}
		}
		switch {
		case info.IsDir():
			err = copyDir(from, to, ancestors)
		case info.Mode().IsRegular():
			err = copyFile(from, to)
		default:
			err = &FilesystemError{Op: "copy", Path: from, Err: fmt.Errorf("unsupported file type %s", info.Mode().Type())}
		}
		if err != nil {
			return err
		}
	}
	return nil
}
