package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/vk/hpmbench/internal/evaluator"
	"github.com/vk/hpmbench/internal/executor"
	"golang.org/x/term"
)

const maxCauseWidth = 60

var (
	statusSucceeded = color.New(color.FgGreen).SprintFunc()
	statusFailed    = color.New(color.FgRed).SprintFunc()
	statusSkipped   = color.New(color.FgYellow).SprintFunc()
	headerStyle     = color.New(color.Bold).SprintFunc()
)

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteTable renders the report as an aligned text table, one line per
// configuration in manifest order.
func WriteTable(out io.Writer, rep *evaluator.Report, colorize bool) error {
	rows := make([][]string, 0, len(rep.Rows))
	for _, r := range rep.Rows {
		c := cells(rep, r)
		c[len(c)-1] = runewidth.Truncate(c[len(c)-1], maxCauseWidth, "…")
		rows = append(rows, c)
	}

	var b strings.Builder
	writeAligned(&b, columns(rep), rows, 1+len(rep.Dimensions), colorize)

	results, noResults := rep.Counts()
	b.WriteString("\n")
	b.WriteString(summaryLine(len(rep.Rows), results, noResults))
	b.WriteString("\n")

	_, err := io.WriteString(out, b.String())
	return err
}

// writeAligned renders upper-cased headers and rows as columns separated by
// two spaces. statusCol is coloured by run status when colorize is set; a
// negative statusCol disables that.
func writeAligned(b *strings.Builder, headers []string, rows [][]string, statusCol int, colorize bool) {
	upper := make([]string, len(headers))
	for i, h := range headers {
		upper[i] = strings.ToUpper(h)
	}

	widths := make([]int, len(upper))
	for i, h := range upper {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i, c := range r {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	renderRow := func(cols []string, style func(i int, s string) string) {
		var line strings.Builder
		for i, col := range cols {
			shown := col
			if style != nil {
				shown = style(i, col)
			}
			line.WriteString(shown)
			if i < len(cols)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(col)+2))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}

	var headerFn, rowFn func(int, string) string
	if colorize {
		headerFn = func(_ int, s string) string { return headerStyle(s) }
		rowFn = func(i int, s string) string {
			if i != statusCol {
				return s
			}
			return colorizeStatus(s)
		}
	}
	renderRow(upper, headerFn)
	for _, r := range rows {
		renderRow(r, rowFn)
	}
}

func colorizeStatus(s string) string {
	switch executor.Status(s) {
	case executor.StatusSucceeded:
		return statusSucceeded(s)
	case executor.StatusFailed:
		return statusFailed(s)
	case executor.StatusSkipped:
		return statusSkipped(s)
	default:
		return s
	}
}

func summaryLine(total, results, noResults int) string {
	return fmt.Sprintf("%d configurations, %d with results, %d without", total, results, noResults)
}
