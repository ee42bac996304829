package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/tasksearch/tasksearch/v1/logger"
)

// FXModule provides *Tracer and shuts the provider down on stop so pending
// spans are flushed to the exporter.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers the OnStop hook for the tracer.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down tracer", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
