package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/postgres"
	"github.com/tasksearch/tasksearch/v1/tasks"
)

// FXModule provides the HTTP server and serves it for the lifetime of the
// application.
var FXModule = fx.Module("server",
	fx.Provide(
		ProvideTaskService,
		ProvideReadinessChecks,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// ProvideTaskService exposes *tasks.Service as the TaskService interface.
func ProvideTaskService(s *tasks.Service) TaskService {
	return s
}

// ProvideReadinessChecks gates readiness on the database and the embedding service.
func ProvideReadinessChecks(pg *postgres.Postgres, emb *embedding.Client) []ReadinessCheck {
	return []ReadinessCheck{
		{Name: "postgres", Pinger: pg},
		{Name: "embedding", Pinger: emb},
	}
}

// RegisterServerLifecycle binds the listener on start, so a busy port fails
// the application start, and drains connections on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", s.HTTP.Addr)
			if err != nil {
				return fmt.Errorf("server: listen on %s: %w", s.HTTP.Addr, err)
			}

			s.logger.Info("Starting HTTP server", nil, map[string]interface{}{
				"address": ln.Addr().String(),
			})
			go func() {
				if err := s.HTTP.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.logger.Error("HTTP server stopped unexpectedly", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			s.logger.Info("Shutting down HTTP server", nil, nil)

			if s.cfg.ShutdownTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
				defer cancel()
			}
			return s.HTTP.Shutdown(ctx)
		},
	})
}
