package report

import (
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// WriteSweeps renders stored sweep summaries as an aligned table.
func WriteSweeps(out io.Writer, sweeps []SweepSummary, colorize bool) error {
	if len(sweeps) == 0 {
		_, err := io.WriteString(out, "No sweeps recorded.\n")
		return err
	}
	rows := make([][]string, 0, len(sweeps))
	for _, s := range sweeps {
		rows = append(rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.Started.UTC().Format(time.DateTime),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Results),
			strconv.Itoa(len(s.Dimensions)),
			s.Manifest,
		})
	}
	var b strings.Builder
	writeAligned(&b, []string{"id", "started", "configurations", "results", "dimensions", "manifest"}, rows, -1, colorize)
	_, err := io.WriteString(out, b.String())
	return err
}

// WriteRuns renders the stored rows of one sweep. Metric columns are the
// sorted union of the metric names found in runs.
func WriteRuns(out io.Writer, runs []StoredRun, colorize bool) error {
	var metrics []string
	seen := make(map[string]struct{})
	for _, r := range runs {
		for name := range r.Metrics {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				metrics = append(metrics, name)
			}
		}
	}
	slices.Sort(metrics)

	headers := append([]string{"index", "configuration", "status", "outcome"}, metrics...)
	headers = append(headers, "cause")
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		row := []string{strconv.Itoa(r.Index), r.Line, r.Status, r.Outcome}
		for _, m := range metrics {
			row = append(row, r.Metrics[m])
		}
		rows = append(rows, append(row, runewidth.Truncate(r.Cause, maxCauseWidth, "…")))
	}

	var b strings.Builder
	writeAligned(&b, headers, rows, 2, colorize)
	_, err := io.WriteString(out, b.String())
	return err
}
