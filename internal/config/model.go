package config

import (
	"time"

	"github.com/vk/hpmbench/internal/sweep"
)

// Defaults applied to settings a sweep file leaves unset.
const (
	DefaultTargetDir       = "."
	DefaultManifest        = "configs.csv"
	DefaultArtifact        = "results/{{.Name}}.csv"
	DefaultNotifyNamespace = "/"
	DefaultNotifyEvent     = "hpmbench"
	DefaultNotifyTimeout   = 5 * time.Second
)

// Sweep is the unified, format-agnostic representation of a sweep
// definition: what to deploy, what to enumerate, how to run it, and where
// the report goes.
type Sweep struct {
	Deployment Deployment
	Space      sweep.Space
	Run        Run
	Report     Report
	Notify     *Notify // nil when progress events are disabled
	// Sources lists the files the sweep was loaded from.
	Sources []string
}

// Deployment names the renderer artifacts and where they are staged.
type Deployment struct {
	TargetDir    string
	Executable   string
	Dependencies []string
	DataDir      string
}

// Run holds the execution settings.
type Run struct {
	Manifest string
	Timeout  time.Duration
	Wrapper  string
	LogDir   string
	Artifact string
	Env      map[string]string
}

// Report lists the optional report sinks. Empty fields are disabled.
type Report struct {
	CSV       string
	YAML      string
	SQLite    string
	UploadURL string
}

// Notify configures the Socket.IO progress publisher.
type Notify struct {
	URL       string
	Namespace string
	Event     string
	Timeout   time.Duration
}

// ApplyDefaults fills unset settings with their defaults.
func (s *Sweep) ApplyDefaults() {
	if s.Deployment.TargetDir == "" {
		s.Deployment.TargetDir = DefaultTargetDir
	}
	if s.Run.Manifest == "" {
		s.Run.Manifest = DefaultManifest
	}
	if s.Run.Artifact == "" {
		s.Run.Artifact = DefaultArtifact
	}
	if n := s.Notify; n != nil {
		if n.Namespace == "" {
			n.Namespace = DefaultNotifyNamespace
		}
		if n.Event == "" {
			n.Event = DefaultNotifyEvent
		}
		if n.Timeout == 0 {
			n.Timeout = DefaultNotifyTimeout
		}
	}
}
