package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/assertion"
	"digital.vasic.mobilelogin/pkg/metrics"
	"digital.vasic.mobilelogin/pkg/runner"
	"digital.vasic.mobilelogin/pkg/scenario"
)

var (
	_ metrics.RunMetrics = (*metrics.PrometheusMetrics)(nil)
	_ metrics.RunMetrics = metrics.NoopMetrics{}
	_ runner.Observer    = (*metrics.Observer)(nil)
)

func newMetrics(t *testing.T) *metrics.PrometheusMetrics {
	t.Helper()
	m, err := metrics.NewPrometheusMetrics("")
	require.NoError(t, err)
	return m
}

func TestPrometheusMetrics_Record(t *testing.T) {
	m := newMetrics(t)
	m.IncrementRunTotal()
	m.RecordExecution("valid-login", "passed", 2*time.Second)
	m.RecordExecution("valid-login", "passed", 3*time.Second)
	m.RecordExecution("invalid-login", "failed", time.Second)
	m.RecordAssertion(true)
	m.RecordAssertion(false)
	m.SetActiveScenarios(1)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	series := map[string]int{}
	for _, f := range families {
		series[f.GetName()] = len(f.GetMetric())
	}
	assert.Equal(t, map[string]int{
		"mobilelogin_runs_total":                1,
		"mobilelogin_scenarios_total":           2,
		"mobilelogin_scenario_duration_seconds": 2,
		"mobilelogin_assertions_total":          2,
		"mobilelogin_active_scenarios":          1,
	}, series)
}

func TestPrometheusMetrics_SeparateRegistries(t *testing.T) {
	a, err := metrics.NewPrometheusMetrics("suite_a")
	require.NoError(t, err)
	b, err := metrics.NewPrometheusMetrics("suite_a")
	require.NoError(t, err)
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestPrometheusMetrics_Handler(t *testing.T) {
	m := newMetrics(t)
	m.IncrementRunTotal()
	m.RecordExecution("valid-login", "passed", time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "mobilelogin_runs_total 1")
	assert.Contains(t, string(body), `mobilelogin_scenarios_total{category="valid-login",status="passed"} 1`)
	assert.Contains(t, string(body), "mobilelogin_scenario_duration_seconds_bucket")
}

type recording struct {
	metrics.NoopMetrics
	runs       int
	executions []string
	assertions []bool
	active     []int
}

func (r *recording) IncrementRunTotal() { r.runs++ }
func (r *recording) RecordExecution(category, status string, _ time.Duration) {
	r.executions = append(r.executions, category+":"+status)
}
func (r *recording) RecordAssertion(passed bool) { r.assertions = append(r.assertions, passed) }
func (r *recording) SetActiveScenarios(n int)    { r.active = append(r.active, n) }

func TestObserver(t *testing.T) {
	rec := &recording{}
	o := metrics.NewObserver(rec)
	s := scenario.New("valid-login-test", "Valid login", "", "valid-login", nil)

	o.RunStarted("run-1", 2)
	o.ScenarioStarted("run-1", s)
	o.ScenarioFinished("run-1", &scenario.Result{
		Category: "valid-login",
		Status:   scenario.StatusPassed,
		Assertions: []assertion.Result{
			{Passed: true}, {Passed: false},
		},
	})
	o.ScenarioFinished("run-1", &scenario.Result{
		Category: "invalid-login",
		Status:   scenario.StatusSkipped,
	})
	o.RunFinished("run-1", nil)

	assert.Equal(t, 1, rec.runs)
	assert.Equal(t, []string{"valid-login:passed", "invalid-login:skipped"}, rec.executions)
	assert.Equal(t, []bool{true, false}, rec.assertions)
	assert.Equal(t, []int{1, 0, 0, 0}, rec.active)
}

func TestObserver_NilMetrics(t *testing.T) {
	o := metrics.NewObserver(nil)
	assert.NotPanics(t, func() {
		o.RunStarted("run", 1)
		o.ScenarioFinished("run", &scenario.Result{Status: scenario.StatusPassed})
		o.RunFinished("run", nil)
	})
}
