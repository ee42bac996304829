package tracer

// Config holds tracer settings.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"tasksearch"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`

	// EnableExport turns on the OTLP/HTTP exporter. Without it spans are still
	// created (for log correlation and propagation) but never leave the process.
	EnableExport bool `env:"TRACING_ENABLE_EXPORT" envDefault:"false"`

	// Endpoint overrides OTEL_EXPORTER_OTLP_ENDPOINT, e.g. "http://otel-collector:4318".
	Endpoint string `env:"TRACING_OTLP_ENDPOINT"`
}
