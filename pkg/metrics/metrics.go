// Package metrics exports run outcomes as Prometheus metrics.
package metrics

import "time"

// RunMetrics defines the interface for recording run metrics.
type RunMetrics interface {
	// RecordExecution records one finished scenario.
	RecordExecution(category, status string, duration time.Duration)
	// RecordAssertion records an evaluated assertion.
	RecordAssertion(passed bool)
	// IncrementRunTotal increments the total run counter.
	IncrementRunTotal()
	// SetActiveScenarios sets the gauge of running scenarios.
	SetActiveScenarios(count int)
}

// NoopMetrics is a no-op implementation of RunMetrics.
type NoopMetrics struct{}

func (NoopMetrics) RecordExecution(_, _ string, _ time.Duration) {}
func (NoopMetrics) RecordAssertion(_ bool)                       {}
func (NoopMetrics) IncrementRunTotal()                           {}
func (NoopMetrics) SetActiveScenarios(_ int)                     {}
