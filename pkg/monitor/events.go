// Package monitor follows a run live: it turns runner notifications
// into events, keeps a dashboard of per-scenario state and streams
// both over Server-Sent Events and WebSocket.
package monitor

import (
	"time"

	"digital.vasic.mobilelogin/pkg/scenario"
)

// EventType represents the type of run event.
type EventType string

const (
	EventRunStarted  EventType = "run_started"
	EventStarted     EventType = "started"
	EventCompleted   EventType = "completed"
	EventFailed      EventType = "failed"
	EventSkipped     EventType = "skipped"
	EventTimedOut    EventType = "timed_out"
	EventError       EventType = "error"
	EventRunFinished EventType = "run_finished"
)

// Event is one lifecycle notification of a run.
type Event struct {
	Type       EventType     `json:"type"`
	RunID      string        `json:"run_id,omitempty"`
	ScenarioID scenario.ID   `json:"scenario_id,omitempty"`
	Name       string        `json:"name,omitempty"`
	Category   string        `json:"category,omitempty"`
	Status     string        `json:"status,omitempty"`
	Message    string        `json:"message,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
	Total      int           `json:"total,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// eventTypeFor maps a final scenario status to its event type.
func eventTypeFor(status string) EventType {
	switch status {
	case scenario.StatusPassed:
		return EventCompleted
	case scenario.StatusFailed:
		return EventFailed
	case scenario.StatusSkipped:
		return EventSkipped
	case scenario.StatusTimedOut:
		return EventTimedOut
	default:
		return EventError
	}
}
