package report

import (
	"strconv"

	"github.com/vk/hpmbench/internal/evaluator"
)

// columns is the flat column layout shared by the table and the CSV export:
// index, one column per dimension, status, outcome, one column per metric,
// and the cause of a missing result.
func columns(rep *evaluator.Report) []string {
	cols := make([]string, 0, len(rep.Dimensions)+len(rep.Metrics)+4)
	cols = append(cols, "index")
	cols = append(cols, rep.Dimensions...)
	cols = append(cols, "status", "outcome")
	cols = append(cols, rep.Metrics...)
	return append(cols, "cause")
}

func cells(rep *evaluator.Report, row evaluator.Row) []string {
	out := make([]string, 0, len(rep.Dimensions)+len(rep.Metrics)+4)
	out = append(out, strconv.Itoa(row.Index))
	for i := range rep.Dimensions {
		v := ""
		if i < len(row.Values) {
			v = row.Values[i]
		}
		out = append(out, v)
	}
	out = append(out, string(row.Status), string(row.Outcome))
	for _, m := range rep.Metrics {
		out = append(out, row.Metrics[m])
	}
	return append(out, cause(row))
}

func cause(row evaluator.Row) string {
	if row.Cause == nil {
		return ""
	}
	return row.Cause.Error()
}
