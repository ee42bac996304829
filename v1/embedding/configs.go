package embedding

import (
	"fmt"
	"time"
)

// Config points the client at the embedding service.
//
// EMBEDDING_SERVICE_URL is the full URL of the embed endpoint (path included).
// The service accepts {"text": "..."} and answers {"embedding": [...]}.
type Config struct {
	Endpoint  string `env:"EMBEDDING_SERVICE_URL" envDefault:"http://embedding-service:6000/embed"`
	HealthURL string `env:"EMBEDDING_HEALTH_URL"` // optional readiness endpoint, e.g. http://embedding-service:6000/health

	HTTPTimeoutS int `env:"EMBEDDING_HTTP_TIMEOUT_SECONDS" envDefault:"30"` // bound on a single call
	Dimension    int `env:"EMBEDDING_DIMENSION" envDefault:"384"`            // length of every returned vector
}

// Timeout returns the per-call bound as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTPTimeoutS) * time.Second
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_SERVICE_URL")
	}
	if c.HTTPTimeoutS <= 0 {
		return fmt.Errorf("embedding: EMBEDDING_HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTPTimeoutS)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("embedding: EMBEDDING_DIMENSION must be positive, got %d", c.Dimension)
	}
	return nil
}
