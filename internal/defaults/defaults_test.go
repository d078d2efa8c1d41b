package defaults_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/hpmbench/internal/defaults"
	"github.com/vk/hpmbench/internal/hcl"
)

func TestDefaultSweep(t *testing.T) {
	s, err := hcl.NewLoader().LoadSource(context.Background(), defaults.Name, defaults.Source())
	require.NoError(t, err)

	require.Equal(t, []string{
		"loss_fn", "optimizer", "learning_rate", "encoding", "nn_width", "nn_depth",
		"log2_batch_size", "scene", "render_width", "render_height", "train_sample_ratio", "train_spp",
	}, s.Space.Names())

	count, err := s.Space.Count()
	require.NoError(t, err)
	require.Equal(t, 3200, count)

	configs, err := s.Space.Enumerate()
	require.NoError(t, err)
	require.Equal(t, "RelativeL2 Adam 0.01 0 64 2 12 0 1920 1080 0.01 1", configs[0].Line())
	require.Equal(t, "RelativeL2 Adam 0.01 0 64 2 12 0 1920 1080 0.01 2", configs[1].Line())
	require.Equal(t, "RelativeL2 Adam 0.00001 0 128 10 16 0 1920 1080 0.1 8", configs[len(configs)-1].Line())

	require.Equal(t, "../Debug/NRC-HPM-Renderer.exe", s.Deployment.Executable)
	require.Equal(t, []string{"../Debug/glfw3.dll"}, s.Deployment.Dependencies)
	require.Equal(t, "../data", s.Deployment.DataDir)
	require.Equal(t, ".", s.Deployment.TargetDir)
	require.Equal(t, "configs.csv", s.Run.Manifest)
	require.Equal(t, "results/{{.Name}}.csv", s.Run.Artifact)
	require.Nil(t, s.Notify)
}
