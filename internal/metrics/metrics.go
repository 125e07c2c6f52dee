// Package metrics provides the centralized Prometheus metrics registry for the forecaster.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prop_forecast"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of predictions generated by data quality",
	}, []string{"data_quality"})
	PredictionErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_errors_total",
		Help:      "Total number of rejected prediction requests by reason",
	}, []string{"reason"})
	ComparisonsFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "historical_comparisons_found_total",
		Help:      "Total number of historical comparisons returned by the finder",
	})
)

// Histogram metrics
var (
	PredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of prediction generation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	PassageProbability = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "passage_probability",
		Help:      "Distribution of generated passage probabilities",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PredictionErrorsTotal)
		registry.MustRegister(ComparisonsFoundTotal)
		registry.MustRegister(PredictionDuration)
		registry.MustRegister(PassageProbability)

		registry.MustRegister(ArchiveFetchesTotal)
		registry.MustRegister(ArchiveFetchDuration)
		registry.MustRegister(ArchiveCacheLookupsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(ScenarioRunsTotal)
		registry.MustRegister(ScenarioRunDuration)
		registry.MustRegister(StoredScenarios)
		registry.MustRegister(StreamClients)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a generated prediction.
func RecordPrediction(dataQuality string, probability, durationSeconds float64) {
	PredictionsTotal.WithLabelValues(dataQuality).Inc()
	PassageProbability.Observe(probability)
	PredictionDuration.Observe(durationSeconds)
}

// RecordPredictionError records a rejected prediction request.
// reason should be one of: "malformed", "cancelled"
func RecordPredictionError(reason string) {
	PredictionErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordComparisonsFound records how many comparisons a search returned.
func RecordComparisonsFound(count int) {
	ComparisonsFoundTotal.Add(float64(count))
}
