package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/tasksearch/tasksearch/v1/tracer"
)

// Client calls the embedding service over HTTP. It implements Embedder.
//
// Calls are single-shot: there is no retry, and every call is bounded by the
// configured timeout. Retrying is the caller's decision.
type Client struct {
	endpoint   string
	healthURL  string
	httpClient *http.Client
	cfg        Config
	tracer     *tracer.Tracer
}

var _ Embedder = (*Client)(nil)

// NewClient validates cfg and builds the HTTP client. tr may be nil, in which
// case no trace headers are propagated.
func NewClient(cfg Config, tr *tracer.Tracer) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		healthURL:  cfg.HealthURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		cfg:        cfg,
		tracer:     tr,
	}, nil
}

// Embed returns the embedding of text. Any failure wraps ErrUnavailable.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	var parsed embedResponse
	if err := c.postJSON(ctx, c.endpoint, embedRequest{Text: text}, &parsed); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s: %v", ErrUnavailable, c.cfg.Timeout(), err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("%w: response has no embedding", ErrUnavailable)
	}

	out := make([]float32, len(parsed.Embedding))
	for i, v := range parsed.Embedding {
		f := float32(v)
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil, fmt.Errorf("%w: non-finite value at index %d", ErrUnavailable, i)
		}
		out[i] = f
	}

	return out, nil
}

// Ping checks the service's health endpoint. It is a no-op when no health
// URL is configured.
func (c *Client) Ping(ctx context.Context) error {
	if c.healthURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health returned http %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// Close releases idle HTTP connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
