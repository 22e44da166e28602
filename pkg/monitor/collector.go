package monitor

import (
	"sync"
	"time"

	"digital.vasic.mobilelogin/pkg/scenario"
)

// EventCollector records run events and fans them out to handlers.
// It satisfies runner.Observer.
type EventCollector struct {
	mu       sync.RWMutex
	events   []Event
	handlers []func(Event)
	stats    CollectorStats
}

// CollectorStats holds aggregate statistics.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	TimedOut  int           `json:"timed_out"`
	Errored   int           `json:"errored"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events: make([]Event, 0, 64),
		stats:  CollectorStats{StartTime: time.Now()},
	}
}

// OnEvent registers a handler to be called for each event.
func (c *EventCollector) OnEvent(handler func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers outside the lock.
func (c *EventCollector) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventCompleted:
		c.stats.Total++
		c.stats.Passed++
	case EventFailed:
		c.stats.Total++
		c.stats.Failed++
	case EventSkipped:
		c.stats.Total++
		c.stats.Skipped++
	case EventTimedOut:
		c.stats.Total++
		c.stats.TimedOut++
	case EventError:
		c.stats.Total++
		c.stats.Errored++
	}
	handlers := make([]func(Event), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// RunStarted emits EventRunStarted.
func (c *EventCollector) RunStarted(runID string, total int) {
	c.Emit(Event{Type: EventRunStarted, RunID: runID, Total: total})
}

// ScenarioStarted emits EventStarted.
func (c *EventCollector) ScenarioStarted(runID string, s scenario.Scenario) {
	c.Emit(Event{
		Type:       EventStarted,
		RunID:      runID,
		ScenarioID: s.ID(),
		Name:       s.Name(),
		Category:   s.Category(),
		Status:     scenario.StatusRunning,
	})
}

// ScenarioFinished emits the event matching the result's status.
func (c *EventCollector) ScenarioFinished(runID string, r *scenario.Result) {
	c.Emit(Event{
		Type:       eventTypeFor(r.Status),
		RunID:      runID,
		ScenarioID: r.ScenarioID,
		Name:       r.ScenarioName,
		Category:   r.Category,
		Status:     r.Status,
		Message:    r.Error,
		Duration:   r.Duration,
	})
}

// RunFinished emits EventRunFinished.
func (c *EventCollector) RunFinished(runID string, results []*scenario.Result) {
	c.Emit(Event{Type: EventRunFinished, RunID: runID, Total: len(results)})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
}
