// Package notify publishes sweep progress events to an optional live
// listener such as a dashboard. Publishing is best effort: a notifier never
// fails the sweep.
package notify

import (
	"context"
	"errors"
	"time"
)

// EventType classifies a progress event.
type EventType string

const (
	StageStarted  EventType = "stage_started"
	StageFinished EventType = "stage_finished"
	RunStarted    EventType = "run_started"
	RunFinished   EventType = "run_finished"
)

// Event is a single progress notification.
type Event struct {
	Type   EventType `json:"type"`
	Stage  string    `json:"stage,omitempty"`
	Index  int       `json:"index"`
	Total  int       `json:"total,omitempty"`
	Args   []string  `json:"args,omitempty"`
	Status string    `json:"status,omitempty"`
	Error  string    `json:"error,omitempty"`
	Time   time.Time `json:"time"`
}

// Notifier receives progress events.
type Notifier interface {
	Notify(ctx context.Context, ev Event)
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}
func (Nop) Close() error                  { return nil }

// Func adapts a function to the Notifier interface.
type Func func(ev Event)

func (f Func) Notify(_ context.Context, ev Event) { f(ev) }
func (Func) Close() error                         { return nil }

// Stamp fills in the event time if it is unset.
func Stamp(ev Event) Event {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}
	return ev
}

// Multi fans every event out to all notifiers, in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) {
	for _, n := range m {
		n.Notify(ctx, ev)
	}
}

// Close closes every notifier and joins their errors.
func (m Multi) Close() error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.Close())
	}
	return errors.Join(errs...)
}
