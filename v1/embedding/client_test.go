package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasksearch/tasksearch/v1/tracer"
)

func newTestClient(t *testing.T, url string, timeoutS int) *Client {
	t.Helper()
	c, err := NewClient(Config{Endpoint: url, HTTPTimeoutS: timeoutS, Dimension: 3}, nil)
	require.NoError(t, err)
	return c
}

func TestConfigValidate(t *testing.T) {
	assert.Error(t, Config{HTTPTimeoutS: 1, Dimension: 1}.Validate())
	assert.Error(t, Config{Endpoint: "http://x", Dimension: 1}.Validate())
	assert.Error(t, Config{Endpoint: "http://x", HTTPTimeoutS: 1}.Validate())
	assert.NoError(t, Config{Endpoint: "http://x", HTTPTimeoutS: 1, Dimension: 384}.Validate())

	_, err := NewClient(Config{}, nil)
	assert.Error(t, err)
}

func TestEmbedSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req embedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Get milk from the store", req.Text)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding":       []float64{0.1, -0.2, 0.3},
			"processing_time": 0.01,
		})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, 5)
	vec, err := c.Embed(context.Background(), "Get milk from the store")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, -0.2, 0.3}, vec)
	assert.NoError(t, c.Close())
}

func TestEmbedPropagatesTraceContext(t *testing.T) {
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "test"})
	require.NoError(t, err)
	defer func() { _ = tr.Shutdown(context.Background()) }()

	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = w.Write([]byte(`{"embedding":[1,2,3]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL, HTTPTimeoutS: 5, Dimension: 3}, tr)
	require.NoError(t, err)

	ctx, span := tr.StartSpan(context.Background(), "embed")
	defer span.End()

	_, err = c.Embed(ctx, "milk")
	require.NoError(t, err)
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}

func TestEmbedFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "ServerError",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
			},
		},
		{
			name: "RateLimited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
		},
		{
			name: "NotJSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>oops</html>"))
			},
		},
		{
			name: "MissingEmbedding",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"vector":[1,2,3]}`))
			},
		},
		{
			name: "EmptyEmbedding",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embedding":[]}`))
			},
		},
		{
			name: "WrongElementType",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embedding":["a","b"]}`))
			},
		},
		{
			name: "OverflowsFloat32",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"embedding":[1e300,0,0]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newTestClient(t, srv.URL, 5)
			vec, err := c.Embed(context.Background(), "milk")
			assert.Nil(t, vec)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestEmbedUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url, 1)
	_, err := c.Embed(context.Background(), "milk")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEmbedTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := newTestClient(t, srv.URL, 1)

	start := time.Now()
	_, err := c.Embed(context.Background(), "milk")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestEmbedEmptyText(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1", 1)
	_, err := c.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestPing(t *testing.T) {
	var unhealthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unhealthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{Endpoint: srv.URL + "/embed", HealthURL: srv.URL + "/health", HTTPTimeoutS: 1, Dimension: 3}, nil)
	require.NoError(t, err)

	assert.NoError(t, c.Ping(context.Background()))

	unhealthy.Store(true)
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)

	noHealth := newTestClient(t, srv.URL, 1)
	assert.NoError(t, noHealth.Ping(context.Background()))
}
