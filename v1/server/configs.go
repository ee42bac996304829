package server

import (
	"fmt"
	"net"
	"time"

	"github.com/gin-gonic/gin"
)

// Config defines the HTTP listener.
type Config struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"PORT" envDefault:"5000"`

	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`

	// ReadinessTimeout bounds all dependency checks of /health/ready together.
	ReadinessTimeout time.Duration `env:"HTTP_READINESS_TIMEOUT" envDefault:"2s"`

	// GinMode is one of gin's modes: debug, release or test.
	GinMode string `env:"GIN_MODE" envDefault:"release"`
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) Validate() error {
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("server: unknown GIN_MODE %q", c.GinMode)
	}
	if c.Port == "" {
		return fmt.Errorf("server: PORT is required")
	}
	return nil
}
