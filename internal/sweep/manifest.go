package sweep

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxLineSize bounds a single manifest line when decoding.
const maxLineSize = 1 << 20

// Manifest is the persisted, ordered list of all configurations of a sweep.
type Manifest struct {
	Path           string
	Configurations []Configuration
}

// Len returns the number of configurations in the manifest.
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Configurations)
}

// Encode writes one line per configuration and returns the number of lines
// written.
func Encode(w io.Writer, configs []Configuration) (int, error) {
	bw := bufio.NewWriter(w)
	lines := 0
	for _, c := range configs {
		if _, err := bw.WriteString(c.Line()); err != nil {
			return lines, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return lines, err
		}
		lines++
	}
	return lines, bw.Flush()
}

// Decode parses a manifest. The index of each configuration is its line
// number, counted from zero.
func Decode(r io.Reader) ([]Configuration, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var configs []Configuration
	width := -1
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			return nil, fmt.Errorf("line %d: empty manifest line", len(configs)+1)
		}
		values := strings.Split(line, Separator)
		if width == -1 {
			width = len(values)
		} else if len(values) != width {
			return nil, fmt.Errorf("line %d: expected %d tokens, got %d", len(configs)+1, width, len(values))
		}
		configs = append(configs, Configuration{Index: len(configs), Values: values})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return configs, nil
}

// WriteManifest replaces the file at path with the encoded configurations.
// The file is written to a temporary sibling and renamed into place, so a
// failed write never leaves a truncated manifest behind.
func WriteManifest(path string, configs []Configuration) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create manifest directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".manifest-*")
	if err != nil {
		return 0, fmt.Errorf("create temporary manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	lines, err := Encode(tmp, configs)
	if err != nil {
		tmp.Close()
		return lines, fmt.Errorf("write manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return lines, fmt.Errorf("close manifest: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return lines, fmt.Errorf("chmod manifest: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return lines, fmt.Errorf("replace manifest: %w", err)
	}
	return lines, nil
}

// ReadManifest loads a manifest from disk.
func ReadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	configs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("manifest %s: %w", path, errEmptyManifest)
	}
	return &Manifest{Path: path, Configurations: configs}, nil
}

var errEmptyManifest = errors.New("manifest contains no configurations")
