package metrics

// Default port for metrics server if none is specified.
const DefaultMetricsAddress = ":9090"

// Config defines how metrics are exposed and labelled.
type Config struct {
	// Address the /metrics HTTP server listens on, e.g. ":9090" or "127.0.0.1:9100".
	Address string `env:"METRICS_ADDRESS" envDefault:":9090"`

	// EnableDefaultCollectors registers the Go runtime, process and build info collectors.
	EnableDefaultCollectors bool `env:"METRICS_ENABLE_DEFAULT_COLLECTORS" envDefault:"true"`

	// Namespace prefixes every metric name, e.g. "tasksearch" -> "tasksearch_requests_total".
	Namespace string `env:"METRICS_NAMESPACE"`

	// ServiceName is attached to every metric as the constant label service="<name>".
	ServiceName string `env:"SERVICE_NAME" envDefault:"tasksearch"`
}
