// Package metrics exposes prometheus collectors for fetch attempts, search
// latency, and the HTTP surface.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Fetch attempt outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

var (
	fetchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catsearch",
			Name:      "fetch_attempts_total",
			Help:      "Fetch strategy attempts by strategy name and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	searchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catsearch",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search invocation duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"domain", "status"},
	)
)

func init() {
	prometheus.MustRegister(fetchAttemptsTotal)
	prometheus.MustRegister(searchDuration)
}

// RecordFetchAttempt counts one strategy attempt with its outcome.
func RecordFetchAttempt(strategy, outcome string) {
	fetchAttemptsTotal.WithLabelValues(strategy, outcome).Inc()
}

// ObserveSearch records the duration of one search invocation.
// status is "ok" or the error kind from the response envelope.
func ObserveSearch(domain, status string, elapsed time.Duration) {
	searchDuration.WithLabelValues(domain, status).Observe(elapsed.Seconds())
}
