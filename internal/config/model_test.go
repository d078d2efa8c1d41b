package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	s := &Sweep{Notify: &Notify{URL: "http://localhost:3000"}}
	s.ApplyDefaults()

	require.Equal(t, DefaultTargetDir, s.Deployment.TargetDir)
	require.Equal(t, DefaultManifest, s.Run.Manifest)
	require.Equal(t, DefaultArtifact, s.Run.Artifact)
	require.Equal(t, &Notify{
		URL:       "http://localhost:3000",
		Namespace: DefaultNotifyNamespace,
		Event:     DefaultNotifyEvent,
		Timeout:   DefaultNotifyTimeout,
	}, s.Notify)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	s := &Sweep{
		Deployment: Deployment{TargetDir: "bench"},
		Run:        Run{Manifest: "sweep.txt", Artifact: "out/{{.Index}}.csv"},
		Notify:     &Notify{Namespace: "/bench", Event: "progress", Timeout: time.Second},
	}
	s.ApplyDefaults()

	require.Equal(t, "bench", s.Deployment.TargetDir)
	require.Equal(t, "sweep.txt", s.Run.Manifest)
	require.Equal(t, "out/{{.Index}}.csv", s.Run.Artifact)
	require.Equal(t, "/bench", s.Notify.Namespace)
	require.Equal(t, "progress", s.Notify.Event)
	require.Equal(t, time.Second, s.Notify.Timeout)
}

func TestApplyDefaults_NoNotify(t *testing.T) {
	s := &Sweep{}
	s.ApplyDefaults()
	require.Nil(t, s.Notify)
}
