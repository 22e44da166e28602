package monitor

import (
	"sync"
	"time"

	"digital.vasic.mobilelogin/pkg/scenario"
)

// Run status values shown on the dashboard.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// Dashboard holds the live state of one run.
type Dashboard struct {
	mu        sync.RWMutex
	runID     string
	startTime time.Time
	status    string
	expected  int
	order     []scenario.ID
	scenarios map[scenario.ID]ScenarioState
}

// DashboardSnapshot is a point-in-time copy of a Dashboard.
type DashboardSnapshot struct {
	RunID     string           `json:"run_id"`
	StartTime time.Time        `json:"start_time"`
	Status    string           `json:"status"`
	Scenarios []ScenarioState  `json:"scenarios"`
	Summary   DashboardSummary `json:"summary"`
}

// ScenarioState is the current state of one scenario.
type ScenarioState struct {
	ID        scenario.ID   `json:"id"`
	Name      string        `json:"name"`
	Category  string        `json:"category,omitempty"`
	Status    string        `json:"status"`
	StartTime *time.Time    `json:"start_time,omitempty"`
	EndTime   *time.Time    `json:"end_time,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	Message   string        `json:"message,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Skipped  int     `json:"skipped"`
	Running  int     `json:"running"`
	Pending  int     `json:"pending"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// NewDashboard creates an empty dashboard for runID.
func NewDashboard(runID string) *Dashboard {
	return &Dashboard{
		runID:     runID,
		startTime: time.Now(),
		status:    RunRunning,
		scenarios: make(map[scenario.ID]ScenarioState),
	}
}

// UpdateFromEvent applies event to the dashboard.
func (d *Dashboard) UpdateFromEvent(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch event.Type {
	case EventRunStarted:
		if event.RunID != "" {
			d.runID = event.RunID
		}
		d.expected = event.Total
		d.status = RunRunning
		return
	case EventRunFinished:
		d.status = RunCompleted
		for _, st := range d.scenarios {
			if st.Status != scenario.StatusPassed &&
				st.Status != scenario.StatusSkipped {
				d.status = RunFailed
				break
			}
		}
		return
	}

	now := event.Timestamp
	if now.IsZero() {
		now = time.Now()
	}
	state, exists := d.scenarios[event.ScenarioID]
	if !exists {
		state = ScenarioState{ID: event.ScenarioID}
		d.order = append(d.order, event.ScenarioID)
	}
	if event.Name != "" {
		state.Name = event.Name
	}
	if event.Category != "" {
		state.Category = event.Category
	}

	if event.Type == EventStarted {
		state.Status = scenario.StatusRunning
		state.StartTime = &now
	} else {
		state.Status = event.Status
		if state.Status == "" {
			state.Status = string(event.Type)
		}
		state.EndTime = &now
		state.Duration = event.Duration
		state.Message = event.Message
	}
	d.scenarios[event.ScenarioID] = state
}

// SetStatus overrides the overall run status.
func (d *Dashboard) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// Snapshot returns a copy of the current state with scenarios in
// the order they were first seen.
func (d *Dashboard) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	snap := DashboardSnapshot{
		RunID:     d.runID,
		StartTime: d.startTime,
		Status:    d.status,
		Scenarios: make([]ScenarioState, 0, len(d.order)),
	}
	s := DashboardSummary{}
	for _, id := range d.order {
		st := d.scenarios[id]
		snap.Scenarios = append(snap.Scenarios, st)
		s.Total++
		switch st.Status {
		case scenario.StatusPassed:
			s.Passed++
		case scenario.StatusSkipped:
			s.Skipped++
		case scenario.StatusRunning:
			s.Running++
		default:
			s.Failed++
		}
	}
	if d.expected > s.Total {
		s.Pending = d.expected - s.Total
		s.Total = d.expected
	}
	if graded := s.Passed + s.Failed; graded > 0 {
		s.PassRate = float64(s.Passed) / float64(graded) * 100
	}
	s.Elapsed = time.Since(d.startTime).Round(time.Millisecond).String()
	snap.Summary = s
	return snap
}

// BuildDashboard replays every collected event into a new
// dashboard.
func BuildDashboard(collector *EventCollector) *Dashboard {
	d := NewDashboard("snapshot")
	for _, event := range collector.Events() {
		d.UpdateFromEvent(event)
	}
	return d
}
