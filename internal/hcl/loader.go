package hcl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/hpmbench/internal/config"
	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/fsutil"
	"github.com/vk/hpmbench/internal/sweep"
)

// Extension is the file extension of sweep files.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL sweep loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file below the given paths, in lexical path order,
// and merges them. Dimensions keep file order, then declaration order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Sweep, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(Extension, paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s sweep files found in %v", Extension, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	m := newMerger()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := m.add(ctx, file, hclFile); err != nil {
			return nil, err
		}
	}
	return m.finish(ctx)
}

// LoadSource parses a single in-memory sweep definition.
func (l *Loader) LoadSource(ctx context.Context, name string, src []byte) (*config.Sweep, error) {
	hclFile, diags := hclparse.NewParser().ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", name, diags)
	}
	m := newMerger()
	if err := m.add(ctx, name, hclFile); err != nil {
		return nil, err
	}
	return m.finish(ctx)
}

// merger folds decoded files into one model. Singleton blocks may appear in
// only one file.
type merger struct {
	sweep *config.Sweep
	seen  map[string]string
}

func newMerger() *merger {
	return &merger{sweep: &config.Sweep{}, seen: make(map[string]string)}
}

func (m *merger) claim(block, file string) error {
	if prev, ok := m.seen[block]; ok {
		return fmt.Errorf("%s: duplicate %q block, already defined in %s", file, block, prev)
	}
	m.seen[block] = file
	return nil
}

func (m *merger) add(ctx context.Context, name string, file *hcl.File) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}
	s := m.sweep
	s.Sources = append(s.Sources, name)

	if d := root.Deployment; d != nil {
		if err := m.claim("deployment", name); err != nil {
			return err
		}
		s.Deployment = config.Deployment{
			TargetDir:    d.TargetDir,
			Executable:   d.Executable,
			Dependencies: d.Dependencies,
			DataDir:      d.DataDir,
		}
	}

	for _, dim := range root.Dimensions {
		tokens, err := optionTokens(ctx, dim.Name, dim.Options)
		if err != nil {
			return err
		}
		s.Space.Dimensions = append(s.Space.Dimensions, sweep.Dimension{Name: dim.Name, Options: tokens})
	}

	if r := root.Run; r != nil {
		if err := m.claim("run", name); err != nil {
			return err
		}
		timeout, err := parseDuration(r.Timeout)
		if err != nil {
			return fmt.Errorf("%s: run.timeout: %w", name, err)
		}
		s.Run = config.Run{
			Manifest: r.Manifest,
			Timeout:  timeout,
			Wrapper:  r.Wrapper,
			LogDir:   r.LogDir,
			Artifact: r.Artifact,
			Env:      r.Env,
		}
	}

	if r := root.Report; r != nil {
		if err := m.claim("report", name); err != nil {
			return err
		}
		s.Report = config.Report{CSV: r.CSV, YAML: r.YAML, SQLite: r.SQLite, UploadURL: r.UploadURL}
	}

	if n := root.Notify; n != nil {
		if err := m.claim("notify", name); err != nil {
			return err
		}
		timeout, err := parseDuration(n.Timeout)
		if err != nil {
			return fmt.Errorf("%s: notify.timeout: %w", name, err)
		}
		s.Notify = &config.Notify{URL: n.URL, Namespace: n.Namespace, Event: n.Event, Timeout: timeout}
	}
	return nil
}

func (m *merger) finish(ctx context.Context) (*config.Sweep, error) {
	s := m.sweep
	if _, ok := m.seen["deployment"]; !ok {
		return nil, errors.New("sweep has no deployment block")
	}
	s.ApplyDefaults()
	ctxlog.FromContext(ctx).Debug("HCL loading complete.",
		"files", len(s.Sources),
		"dimensions", len(s.Space.Dimensions),
	)
	return s, nil
}

func parseDuration(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration cannot be negative, got %s", raw)
	}
	return d, nil
}
