package domain

import (
	"context"
	"time"
)

// EventType categorizes lifecycle events.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventRunEnd    EventType = "run_end"
	EventStepStart EventType = "step_start"
	EventStepEnd   EventType = "step_end"
)

// RunEvent describes the start or end of a whole run.
type RunEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
	Recipe    string    `json:"recipe"`
	Status    RunStatus `json:"status,omitempty"`
	Duration  float64   `json:"duration_seconds,omitempty"`
}

// StepEvent describes the start or end of one step.
type StepEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Type      EventType  `json:"type"`
	RunID     string     `json:"run_id"`
	Recipe    string     `json:"recipe"`
	Step      string     `json:"step"`
	StepType  string     `json:"step_type"`
	Status    StepStatus `json:"status,omitempty"`
	Duration  float64    `json:"duration_seconds,omitempty"`
}

// LifecycleHooks defines callbacks for run observability. A nil callback is
// skipped. Hooks run synchronously on the executor goroutine; keep them cheap.
type LifecycleHooks struct {
	OnRunStart  func(context.Context, *RunEvent)
	OnRunEnd    func(context.Context, *RunEvent)
	OnStepStart func(context.Context, *StepEvent)
	OnStepEnd   func(context.Context, *StepEvent)
}
