package sweep

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// PlanDiff renders a unified diff between the manifest currently stored at
// path and the given configurations. It returns an empty string when the
// manifest would not change. A missing manifest diffs against nothing.
func PlanDiff(path string, configs []Configuration) (string, error) {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read manifest %s: %w", path, err)
	}

	var next bytes.Buffer
	if _, err := Encode(&next, configs); err != nil {
		return "", err
	}
	if bytes.Equal(current, next.Bytes()) {
		return "", nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(next.String()),
		FromFile: path,
		ToFile:   path + " (planned)",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("render manifest diff: %w", err)
	}
	return text, nil
}
