package evaluator

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/vk/hpmbench/internal/ctxlog"
	"github.com/vk/hpmbench/internal/executor"
)

// Outcome tells whether a row carries metrics.
type Outcome string

const (
	OutcomeResult   Outcome = "result"
	OutcomeNoResult Outcome = "no_result"
)

// Row is the evaluated outcome of one configuration.
type Row struct {
	Index    int
	Values   []string
	Status   executor.Status
	Outcome  Outcome
	Metrics  map[string]string
	Cause    error
	Duration time.Duration
}

// Report aggregates a sweep. Rows are in manifest order; Metrics lists every
// metric column seen, in first-seen order.
type Report struct {
	Dimensions []string
	Metrics    []string
	Rows       []Row
}

// Counts returns the number of rows with and without a result.
func (r *Report) Counts() (results, noResults int) {
	for _, row := range r.Rows {
		if row.Outcome == OutcomeResult {
			results++
		} else {
			noResults++
		}
	}
	return results, noResults
}

var errNoArtifact = errors.New("renderer left no result file")

// Evaluate builds a report from run records. When several records share an
// index the last one wins. The only error returned is a context error.
func Evaluate(ctx context.Context, dims []string, records []executor.RunRecord) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	byIndex := make(map[int]executor.RunRecord, len(records))
	for _, rec := range records {
		byIndex[rec.Index] = rec
	}
	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	report := &Report{Dimensions: slices.Clone(dims), Rows: make([]Row, 0, len(indices))}
	seen := make(map[string]bool)
	for _, idx := range indices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec := byIndex[idx]
		row := Row{
			Index:    idx,
			Values:   rec.Configuration.Args(),
			Status:   rec.Status,
			Outcome:  OutcomeNoResult,
			Cause:    rec.Err,
			Duration: rec.Duration(),
		}

		if rec.Succeeded() {
			header, metrics, err := readArtifact(rec.Artifact)
			if err != nil {
				row.Cause = &ArtifactMissingError{Index: idx, Path: rec.Artifact, Err: err}
				logger.Warn("No result for configuration.", "index", idx, "error", row.Cause)
			} else {
				row.Outcome = OutcomeResult
				row.Metrics = metrics
				for _, name := range header {
					if !seen[name] {
						seen[name] = true
						report.Metrics = append(report.Metrics, name)
					}
				}
			}
		}
		report.Rows = append(report.Rows, row)
	}

	results, noResults := report.Counts()
	logger.Info("Results evaluated.", "rows", len(report.Rows), "results", results, "no_results", noResults)
	return report, nil
}

// readArtifact parses a CSV result file with a header row. The metrics are
// taken from the last data row, which holds the final measurement.
func readArtifact(path string) ([]string, map[string]string, error) {
	if path == "" {
		return nil, nil, errNoArtifact
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.Comment = '#'
	rows, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, errors.New("no data rows")
	}

	header, last := rows[0], rows[len(rows)-1]
	metrics := make(map[string]string, len(header))
	for i, name := range header {
		if name == "" {
			return nil, nil, fmt.Errorf("column %d has no name", i+1)
		}
		metrics[name] = last[i]
	}
	return header, metrics, nil
}
