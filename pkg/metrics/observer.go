package metrics

import (
	"sync"

	"digital.vasic.mobilelogin/pkg/scenario"
)

// Observer feeds runner notifications into a RunMetrics. It
// satisfies runner.Observer.
type Observer struct {
	metrics RunMetrics

	mu     sync.Mutex
	active int
}

// NewObserver creates an Observer recording into m.
func NewObserver(m RunMetrics) *Observer {
	if m == nil {
		m = NoopMetrics{}
	}
	return &Observer{metrics: m}
}

func (o *Observer) RunStarted(_ string, _ int) {
	o.metrics.IncrementRunTotal()
}

func (o *Observer) ScenarioStarted(_ string, _ scenario.Scenario) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active++
	o.metrics.SetActiveScenarios(o.active)
}

// ScenarioFinished may arrive without a matching start for
// scenarios skipped after cancellation.
func (o *Observer) ScenarioFinished(_ string, r *scenario.Result) {
	o.mu.Lock()
	if o.active > 0 {
		o.active--
	}
	o.metrics.SetActiveScenarios(o.active)
	o.mu.Unlock()

	o.metrics.RecordExecution(r.Category, r.Status, r.Duration)
	for _, a := range r.Assertions {
		o.metrics.RecordAssertion(a.Passed)
	}
}

func (o *Observer) RunFinished(_ string, _ []*scenario.Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = 0
	o.metrics.SetActiveScenarios(0)
}
