package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// FXModule provides *LoggerClient and the Logger interface and flushes the
// logger on shutdown.
//
// A logger.Config must be available in the container (see v1/config).
//
//	app := fx.New(
//	    config.FXModule,
//	    logger.FXModule,
//	)
var FXModule = fx.Module("logger",
	fx.Provide(
		NewLoggerClient,
		ProvideLogger,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// ProvideLogger exposes the concrete client as the Logger interface.
func ProvideLogger(client *LoggerClient) Logger {
	return client
}

// RegisterLoggerLifecycle syncs buffered entries when the application stops.
func RegisterLoggerLifecycle(lc fx.Lifecycle, client *LoggerClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync on stderr returns EINVAL on some platforms; it is not actionable.
			_ = client.Zap.Sync()
			return nil
		},
	})
}

// FxEventLogger routes fx's own lifecycle events through the service logger.
//
//	fx.New(fx.WithLogger(logger.FxEventLogger), ...)
func FxEventLogger(client *LoggerClient) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: client.Zap}
}
