package testutil

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// ExecutionRecord holds the start and end times for a single process run.
type ExecutionRecord struct {
	Args  []string
	Start time.Time
	End   time.Time
}

// RequireSerialized fails the test if any two records overlap in time.
func RequireSerialized(t *testing.T, records []ExecutionRecord) {
	t.Helper()

	sorted := append([]ExecutionRecord(nil), records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		require.False(t, cur.Start.Before(prev.End),
			"run %v started at %s before run %v ended at %s", cur.Args, cur.Start, prev.Args, prev.End)
	}
}
