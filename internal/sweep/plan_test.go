package sweep

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanDiff(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs.csv")

	configs, err := widthDepthSpace().Enumerate()
	require.NoError(t, err)

	diff, err := PlanDiff(path, configs)
	require.NoError(t, err)
	require.Contains(t, diff, "+64 2")

	_, err = Generate(context.Background(), widthDepthSpace(), path)
	require.NoError(t, err)

	diff, err = PlanDiff(path, configs)
	require.NoError(t, err)
	require.Empty(t, diff, "an unchanged space must produce no diff")

	wider := NewSpace(
		Dimension{Name: "width", Options: []string{"64", "128", "256"}},
		Dimension{Name: "depth", Options: []string{"2", "4"}},
	)
	next, err := wider.Enumerate()
	require.NoError(t, err)
	diff, err = PlanDiff(path, next)
	require.NoError(t, err)
	require.Contains(t, diff, "+256 2")
	require.Contains(t, diff, "+256 4")
}
