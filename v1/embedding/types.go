package embedding

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable covers every way the embedding service can fail a call:
	// unreachable, timed out, non-2xx status or a malformed payload.
	ErrUnavailable = errors.New("embedding service unavailable")

	// ErrEmptyText is returned when Embed is called without text.
	ErrEmptyText = errors.New("embedding: empty text")
)

// Embedder turns text into a fixed-length vector.
//
//go:generate mockgen -source=types.go -destination=mock_embedder.go -package=embedding
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type embedRequest struct {
	Text string `json:"text"`
}

// embedResponse ignores any other field the service returns (processing_time, ...).
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}
