package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics owns the Prometheus registry, the built-in instruments and the HTTP
// server exposing /metrics.
type Metrics struct {
	// Server serves the registry at /metrics.
	Server *http.Server

	// Registry is private to this service so metric names never collide with
	// other libraries registering on the default registry.
	Registry *prometheus.Registry

	// registerer applies the service label and namespace to everything registered.
	registerer prometheus.Registerer

	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	embeddingRequests   *prometheus.CounterVec
	embeddingDuration   prometheus.Histogram
	tasksCreatedTotal   prometheus.Counter
	searchResultsCounts prometheus.Histogram
}

// NewMetrics builds the registry and instruments and prepares (but does not
// start) the /metrics server.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "tasksearch"})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	// Every metric carries service="<cfg.ServiceName>".
	var registerer prometheus.Registerer = prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)
	if cfg.Namespace != "" {
		registerer = prometheus.WrapRegistererWithPrefix(cfg.Namespace+"_", registerer)
	}

	m := &Metrics{
		Registry:   registry,
		registerer: registerer,
	}

	m.requestsTotal = createCounterVec("requests_total", "Total number of processed HTTP requests", []string{"status"})
	m.requestDuration = createHistogramVec("request_duration_seconds", "Duration of HTTP requests in seconds", []string{"endpoint"}, prometheus.DefBuckets)
	m.embeddingRequests = createCounterVec("embedding_requests_total", "Calls to the embedding service by outcome", []string{"outcome"})
	m.embeddingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "embedding_duration_seconds",
		Help:    "Latency of embedding service calls in seconds",
		Buckets: prometheus.DefBuckets,
	})
	m.tasksCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasks_created_total",
		Help: "Total number of persisted tasks",
	})
	m.searchResultsCounts = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "search_results",
		Help:    "Number of tasks returned per similarity search",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	})

	registerer.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.embeddingRequests,
		m.embeddingDuration,
		m.tasksCreatedTotal,
		m.searchResultsCounts,
	)

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := cfg.Address
	if addr == "" {
		addr = DefaultMetricsAddress
	}

	m.Server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return m
}
