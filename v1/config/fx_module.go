package config

import (
	"go.uber.org/fx"

	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/metrics"
	"github.com/tasksearch/tasksearch/v1/postgres"
	"github.com/tasksearch/tasksearch/v1/server"
	"github.com/tasksearch/tasksearch/v1/tasks"
	"github.com/tasksearch/tasksearch/v1/tracer"
)

// FXModule loads the configuration once and provides each component's
// config by value.
var FXModule = fx.Module("config",
	fx.Provide(
		NewConfig,
		SplitConfig,
	),
)

// NewConfig loads the configuration from .env and the environment.
func NewConfig() (Config, error) {
	return Load()
}

// Components carries each sub-config into the container.
type Components struct {
	fx.Out

	Logger    logger.Config
	Tracer    tracer.Config
	Metrics   metrics.Config
	Postgres  postgres.Config
	Embedding embedding.Config
	Tasks     tasks.Config
	Server    server.Config
}

// SplitConfig exposes the sub-configs of cfg.
func SplitConfig(cfg Config) Components {
	return Components{
		Logger:    cfg.Logger,
		Tracer:    cfg.Tracer,
		Metrics:   cfg.Metrics,
		Postgres:  cfg.Postgres,
		Embedding: cfg.Embedding,
		Tasks:     cfg.Tasks,
		Server:    cfg.Server,
	}
}
