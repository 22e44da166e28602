package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "mobilelogin"

// PrometheusMetrics implements RunMetrics on its own registry, so
// several instances never collide.
type PrometheusMetrics struct {
	registry   *prometheus.Registry
	runs       prometheus.Counter
	executions *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	assertions *prometheus.CounterVec
	active     prometheus.Gauge
}

// NewPrometheusMetrics creates and registers the run metrics under
// namespace.
func NewPrometheusMetrics(namespace string) (*PrometheusMetrics, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Suite runs started.",
		}),
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_total",
			Help:      "Finished scenarios by category and status.",
		}, []string{"category", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Scenario wall time including setup and teardown.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}, []string{"category"}),
		assertions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assertions_total",
			Help:      "Evaluated assertions by outcome.",
		}, []string{"result"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_scenarios",
			Help:      "Scenarios currently running.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.runs, m.executions, m.durations, m.assertions, m.active,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordExecution(category, status string, duration time.Duration) {
	m.executions.WithLabelValues(category, status).Inc()
	m.durations.WithLabelValues(category).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordAssertion(passed bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	m.assertions.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) IncrementRunTotal() {
	m.runs.Inc()
}

func (m *PrometheusMetrics) SetActiveScenarios(count int) {
	m.active.Set(float64(count))
}

// Registry returns the registry holding the run metrics.
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
