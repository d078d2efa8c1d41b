package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/hpmbench/internal/evaluator"
	"gopkg.in/yaml.v3"
)

// EncodeCSV writes the report as CSV with a header row.
func EncodeCSV(w io.Writer, rep *evaluator.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns(rep)); err != nil {
		return err
	}
	for _, row := range rep.Rows {
		if err := cw.Write(cells(rep, row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type yamlReport struct {
	Dimensions []string  `yaml:"dimensions"`
	Metrics    []string  `yaml:"metrics,omitempty"`
	Rows       []yamlRow `yaml:"rows"`
}

type yamlRow struct {
	Index         int               `yaml:"index"`
	Configuration []yamlValue       `yaml:"configuration"`
	Status        string            `yaml:"status"`
	Outcome       string            `yaml:"outcome"`
	Seconds       float64           `yaml:"seconds,omitempty"`
	Metrics       map[string]string `yaml:"metrics,omitempty"`
	Cause         string            `yaml:"cause,omitempty"`
}

type yamlValue struct {
	Dimension string `yaml:"dimension"`
	Value     string `yaml:"value"`
}

// EncodeYAML writes the report as a YAML document.
func EncodeYAML(w io.Writer, rep *evaluator.Report) error {
	doc := yamlReport{Dimensions: rep.Dimensions, Metrics: rep.Metrics, Rows: make([]yamlRow, 0, len(rep.Rows))}
	for _, row := range rep.Rows {
		yr := yamlRow{
			Index:   row.Index,
			Status:  string(row.Status),
			Outcome: string(row.Outcome),
			Seconds: row.Duration.Seconds(),
			Metrics: row.Metrics,
			Cause:   cause(row),
		}
		for i, name := range rep.Dimensions {
			if i < len(row.Values) {
				yr.Configuration = append(yr.Configuration, yamlValue{Dimension: name, Value: row.Values[i]})
			}
		}
		doc.Rows = append(doc.Rows, yr)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// WriteCSV writes the CSV export to path, creating parent directories.
func WriteCSV(path string, rep *evaluator.Report) error {
	return writeFile(path, func(w io.Writer) error { return EncodeCSV(w, rep) })
}

// WriteYAML writes the YAML export to path, creating parent directories.
func WriteYAML(path string, rep *evaluator.Report) error {
	return writeFile(path, func(w io.Writer) error { return EncodeYAML(w, rep) })
}

func writeFile(path string, encode func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return f.Close()
}
