package tasks

import (
	"context"

	"go.uber.org/fx"

	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/vector"
)

// FXModule provides the task store, the vector codec and the Service, and
// migrates the schema on start when Config.AutoMigrate is set.
//
// It needs tasks.Config, embedding.Config, *postgres.Postgres,
// embedding.Embedder, metrics.MetricsCollector, *tracer.Tracer and
// logger.Logger from the container.
var FXModule = fx.Module("tasks",
	fx.Provide(
		ProvideCodec,
		NewStore,
		ProvideRepository,
		NewService,
	),
	fx.Invoke(RegisterTasksLifecycle),
)

// ProvideCodec builds the codec for the embedding service's dimension.
func ProvideCodec(cfg embedding.Config) (*vector.Codec, error) {
	return vector.NewCodec(cfg.Dimension)
}

// ProvideRepository exposes *Store as the Repository interface.
func ProvideRepository(s *Store) Repository {
	return s
}

// RegisterTasksLifecycle runs Store.Migrate before the application starts
// serving.
func RegisterTasksLifecycle(lc fx.Lifecycle, cfg Config, store *Store, codec *vector.Codec, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !cfg.AutoMigrate {
				return nil
			}
			if err := store.Migrate(ctx, codec.Dimension()); err != nil {
				log.Error("Task schema migration failed", err, nil)
				return err
			}
			log.Info("Task schema is up to date", nil, map[string]interface{}{
				"dimension": codec.Dimension(),
			})
			return nil
		},
	})
}
