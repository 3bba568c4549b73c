// Package runmetrics exports the outcome of a test run as Prometheus metrics, written in the
// text format that node_exporter's textfile collector picks up from CI machines.
package runmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/testbootstrap/bootstrap-harness/framework/runner"
)

const MetricsNamespace = "bootstrap"

const (
	resultPass = "pass"
	resultFail = "fail"
)

// Metrics holds the gauges for one run, on a registry of its own.
type Metrics struct {
	registry       *prometheus.Registry
	tests          *prometheus.GaugeVec
	runInfo        *prometheus.GaugeVec
	startupError   prometheus.Gauge
	teardownErrors prometheus.Gauge
	duration       prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		tests: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "tests",
			Help:      "Number of tests by outcome, not counting scopes that only group other tests",
		}, []string{"result"}),
		runInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_info",
			Help:      "Always 1; labels identify the run",
		}, []string{"run_id"}),
		startupError: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "startup_error",
			Help:      "1 if the test environment could not be set up",
		}),
		teardownErrors: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "teardown_errors",
			Help:      "Number of environments that failed to tear down",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: MetricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the whole run",
		}),
	}
}

// Record sets every gauge from results. Calling it again overwrites the previous values.
func (m *Metrics) Record(results runner.Results) {
	passed, failed := results.CountTests()
	m.tests.WithLabelValues(resultPass).Set(float64(passed))
	m.tests.WithLabelValues(resultFail).Set(float64(failed))

	m.runInfo.Reset()
	m.runInfo.WithLabelValues(results.RunID).Set(1)

	if results.StartupError != nil {
		m.startupError.Set(1)
	} else {
		m.startupError.Set(0)
	}
	m.teardownErrors.Set(float64(len(results.TeardownErrors)))
	m.duration.Set(results.Duration.Seconds())
}

// Registry returns the registry the gauges are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values to path, replacing it atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
