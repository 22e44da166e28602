package scenario

import (
	"time"

	"digital.vasic.mobilelogin/pkg/assertion"
)

// Status constants for scenario outcomes.
const (
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusPassed   = "passed"
	StatusFailed   = "failed"
	StatusSkipped  = "skipped"
	StatusTimedOut = "timed_out"
	StatusError    = "error"
)

// Result captures the outcome of one scenario execution.
type Result struct {
	ScenarioID   ID     `json:"scenario_id"`
	ScenarioName string `json:"scenario_name"`
	Category     string `json:"category,omitempty"`

	// Status is one of the Status* constants.
	Status string `json:"status"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	// Platform and SessionID identify the device session used.
	Platform  string `json:"platform,omitempty"`
	SessionID string `json:"session_id,omitempty"`

	// Assertions holds every check evaluated during the test, in
	// order.
	Assertions []assertion.Result `json:"assertions"`

	// Outputs holds named values recorded by the test body.
	Outputs map[string]string `json:"outputs,omitempty"`

	// Screenshots lists the files saved during the test.
	Screenshots []string `json:"screenshots,omitempty"`

	// Error is the failure message when the test did not pass.
	Error string `json:"error,omitempty"`
}

// AllPassed returns true if every assertion in the result passed.
func (r *Result) AllPassed() bool {
	for _, a := range r.Assertions {
		if !a.Passed {
			return false
		}
	}
	return true
}

// IsFinal returns true if the status is a terminal state.
func (r *Result) IsFinal() bool {
	switch r.Status {
	case StatusPassed, StatusFailed, StatusSkipped,
		StatusTimedOut, StatusError:
		return true
	}
	return false
}

// Passed reports whether the scenario passed.
func (r *Result) Passed() bool {
	return r.Status == StatusPassed
}

func (r *Result) finish() *Result {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	return r
}
