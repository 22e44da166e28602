package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/scenario"
)

func TestDashboard_UpdateFromEvent(t *testing.T) {
	d := NewDashboard("")
	d.UpdateFromEvent(Event{Type: EventRunStarted, RunID: "run-1", Total: 3})
	d.UpdateFromEvent(Event{Type: EventStarted, ScenarioID: "b", Name: "B"})
	d.UpdateFromEvent(Event{Type: EventStarted, ScenarioID: "a", Name: "A"})
	d.UpdateFromEvent(Event{
		Type: EventCompleted, ScenarioID: "b",
		Status: scenario.StatusPassed, Duration: time.Second,
	})

	snap := d.Snapshot()
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, RunRunning, snap.Status)
	require.Len(t, snap.Scenarios, 2)
	assert.Equal(t, scenario.ID("b"), snap.Scenarios[0].ID, "first-seen order")
	assert.Equal(t, scenario.StatusPassed, snap.Scenarios[0].Status)
	assert.NotNil(t, snap.Scenarios[0].EndTime)
	assert.Equal(t, "B", snap.Scenarios[0].Name)
	assert.Equal(t, scenario.StatusRunning, snap.Scenarios[1].Status)

	assert.Equal(t, 3, snap.Summary.Total)
	assert.Equal(t, 1, snap.Summary.Passed)
	assert.Equal(t, 1, snap.Summary.Running)
	assert.Equal(t, 1, snap.Summary.Pending)
	assert.Equal(t, float64(100), snap.Summary.PassRate)
}

func TestDashboard_RunFinished(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{name: "all passed", status: scenario.StatusPassed, want: RunCompleted},
		{name: "skipped", status: scenario.StatusSkipped, want: RunCompleted},
		{name: "failure", status: scenario.StatusFailed, want: RunFailed},
		{name: "timeout", status: scenario.StatusTimedOut, want: RunFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDashboard("run")
			d.UpdateFromEvent(Event{
				Type: eventTypeFor(tt.status), ScenarioID: "x", Status: tt.status,
			})
			d.UpdateFromEvent(Event{Type: EventRunFinished})
			assert.Equal(t, tt.want, d.Snapshot().Status)
		})
	}
}

func TestDashboard_FailedEventMessage(t *testing.T) {
	d := NewDashboard("run")
	d.UpdateFromEvent(Event{
		Type: EventFailed, ScenarioID: "x",
		Status: scenario.StatusFailed, Message: "Login button is disabled",
	})
	snap := d.Snapshot()
	assert.Equal(t, "Login button is disabled", snap.Scenarios[0].Message)
	assert.Equal(t, 1, snap.Summary.Failed)
	assert.Equal(t, float64(0), snap.Summary.PassRate)
}

func TestDashboard_SetStatus(t *testing.T) {
	d := NewDashboard("run")
	d.SetStatus(RunFailed)
	assert.Equal(t, RunFailed, d.Snapshot().Status)
}

func TestDashboard_SnapshotIsCopy(t *testing.T) {
	d := NewDashboard("run")
	d.UpdateFromEvent(Event{Type: EventStarted, ScenarioID: "x"})
	snap := d.Snapshot()
	snap.Scenarios[0].Status = "mutated"
	assert.Equal(t, scenario.StatusRunning, d.Snapshot().Scenarios[0].Status)
}

func TestBuildDashboard(t *testing.T) {
	c := NewEventCollector()
	c.Emit(Event{Type: EventStarted, ScenarioID: "x"})
	c.Emit(Event{Type: EventCompleted, ScenarioID: "x", Status: scenario.StatusPassed})

	snap := BuildDashboard(c).Snapshot()
	assert.Equal(t, "snapshot", snap.RunID)
	assert.Equal(t, 1, snap.Summary.Passed)
}
