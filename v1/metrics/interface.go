package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is the metrics contract used by the HTTP layer and the
// Task Service. It is implemented by *Metrics.
type MetricsCollector interface {
	// IncrementRequests increments the request counter for an HTTP status code.
	IncrementRequests(status string)

	// RecordRequestDuration records the duration (in seconds) for a route.
	RecordRequestDuration(start time.Time, endpoint string)

	// ObserveEmbedding counts one embedding call with its outcome ("success" or
	// "failure") and records its latency.
	ObserveEmbedding(start time.Time, outcome string)

	// IncrementTasksCreated counts one persisted task.
	IncrementTasksCreated()

	// ObserveSearchResults records how many tasks a search returned.
	ObserveSearchResults(count int)

	// Dynamic metric factories

	CreateCounter(name, help string, labels []string) *prometheus.CounterVec
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}
