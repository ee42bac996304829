package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding client into Fx.
//
// It provides:
//   - *Client   (NewClient)
//   - Embedder  (ProvideEmbedder)
//
// and closes idle connections on stop. An embedding.Config and a *tracer.Tracer
// must be available in the container.
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewClient,       // -> *Client
		ProvideEmbedder, // -> Embedder
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// ProvideEmbedder exposes the client as the Embedder interface.
func ProvideEmbedder(c *Client) Embedder {
	return c
}

// RegisterEmbeddingLifecycle releases HTTP resources on application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
