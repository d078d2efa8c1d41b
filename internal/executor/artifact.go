package executor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"github.com/vk/hpmbench/internal/sweep"
)

// artifactData is exposed to the artifact path template.
type artifactData struct {
	Index int
	Name  string
	Line  string
	Args  []string
}

// ArtifactPattern locates the result file a run is expected to produce,
// for example "results/{{.Name}}.csv".
type ArtifactPattern struct {
	tmpl *template.Template
}

// ParseArtifactPattern compiles a path template. An empty pattern means runs
// produce no artifact the harness should look for.
func ParseArtifactPattern(pattern string) (*ArtifactPattern, error) {
	if pattern == "" {
		return nil, nil
	}
	tmpl, err := template.New("artifact").Option("missingkey=error").Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact pattern %q: %w", pattern, err)
	}
	p := &ArtifactPattern{tmpl: tmpl}
	if _, err := p.Resolve("", sweep.Configuration{Values: []string{"sample"}}); err != nil {
		return nil, fmt.Errorf("invalid artifact pattern %q: %w", pattern, err)
	}
	return p, nil
}

// Resolve returns the artifact path for a configuration. Relative results
// are anchored at dir.
func (p *ArtifactPattern) Resolve(dir string, c sweep.Configuration) (string, error) {
	if p == nil {
		return "", nil
	}
	var buf bytes.Buffer
	data := artifactData{Index: c.Index, Name: c.Name(), Line: c.Line(), Args: c.Args()}
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("resolve artifact path for configuration %d: %w", c.Index, err)
	}
	path := buf.String()
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	return filepath.Clean(path), nil
}
