// Package metrics defines upstream data source metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Archive counter vectors
var (
	ArchiveFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archive_fetches_total",
		Help:      "Total number of archive year fetches by source and status",
	}, []string{"source", "status"})
	ArchiveCacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "archive_cache_lookups_total",
		Help:      "Archive cache lookups by result",
	}, []string{"result"})
	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of upstream circuit breaker trips",
	}, []string{"client"})
)

// Archive histogram vectors
var (
	ArchiveFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "archive_fetch_duration_seconds",
		Help:      "Duration of archive year fetches in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"source"})
)

// RecordArchiveFetch records an archive fetch.
// status should be one of: "success", "failure", "timeout"
func RecordArchiveFetch(source, status string, durationSeconds float64) {
	ArchiveFetchesTotal.WithLabelValues(source, status).Inc()
	ArchiveFetchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordArchiveCacheLookup records a cache hit or miss.
func RecordArchiveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ArchiveCacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip(client string) {
	CircuitBreakerTripsTotal.WithLabelValues(client).Inc()
}
