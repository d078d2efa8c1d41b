package app

import (
	"context"
	"sync"

	"github.com/vk/hpmbench/internal/notify"
)

// Progress is a point-in-time view of a running sweep.
type Progress struct {
	Stage     string `json:"stage"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
}

// progress folds notifier events into a Progress snapshot that the health
// server can read while the pipeline runs.
type progress struct {
	mu   sync.Mutex
	snap Progress
}

func (p *progress) Notify(_ context.Context, ev notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch ev.Type {
	case notify.StageStarted:
		p.snap.Stage = ev.Stage
	case notify.RunStarted:
		p.snap.Total = ev.Total
	case notify.RunFinished:
		p.snap.Completed++
		if ev.Status != "succeeded" {
			p.snap.Failed++
		}
	}
}

func (p *progress) Close() error { return nil }

// Snapshot returns the current progress.
func (p *progress) Snapshot() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}
