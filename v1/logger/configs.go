package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the level and default fields of the logger.
type Config struct {
	// Level is one of debug, info, warning or error. Anything else means info.
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `env:"SERVICE_NAME" envDefault:"tasksearch"`

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods.
	EnableTracing bool `env:"LOG_ENABLE_TRACING" envDefault:"true"`
}
