// Package metrics exposes the service's Prometheus instruments.
//
// Each Metrics instance owns a dedicated registry, so tests can create as many
// as they like without duplicate-registration panics. All metrics carry a
// constant service label and, when METRICS_NAMESPACE is set, a name prefix.
//
// Built-in instruments:
//   - requests_total{status}               HTTP responses by status code
//   - request_duration_seconds{endpoint}   HTTP latency by route
//   - embedding_requests_total{outcome}    embedding calls, success or failure
//   - embedding_duration_seconds           embedding latency
//   - tasks_created_total                  persisted tasks
//   - search_results                       result-set size per search
//
// The registry is served at METRICS_ADDRESS (default :9090) under /metrics.
package metrics
