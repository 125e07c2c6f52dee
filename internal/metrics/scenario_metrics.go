// Package metrics defines scenario metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ScenarioRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scenario_runs_total",
		Help:      "Total number of scenario runs by status",
	}, []string{"status"})
	ScenarioRunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scenario_run_duration_seconds",
		Help:      "Duration of scenario runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	StoredScenarios = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "stored_scenarios",
		Help:      "Number of scenarios currently held in the store",
	})
	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scenario_stream_clients",
		Help:      "Number of connected scenario stream clients",
	})
)

// Scenario run status labels
const (
	ScenarioRunSuccess = "success"
	ScenarioRunError   = "error"
)

// RecordScenarioRun records a scenario run.
// status should be one of: ScenarioRunSuccess, ScenarioRunError
func RecordScenarioRun(status string, durationSeconds float64) {
	ScenarioRunsTotal.WithLabelValues(status).Inc()
	ScenarioRunDuration.Observe(durationSeconds)
}

// UpdateStoredScenarios updates the stored scenario gauge.
func UpdateStoredScenarios(count int) {
	StoredScenarios.Set(float64(count))
}

// UpdateStreamClients updates the connected stream client gauge.
func UpdateStreamClients(count int) {
	StreamClients.Set(float64(count))
}
