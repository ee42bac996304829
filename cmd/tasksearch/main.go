// Command tasksearch serves the task API with semantic search.
package main

import (
	"go.uber.org/fx"

	"github.com/tasksearch/tasksearch/v1/config"
	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/metrics"
	"github.com/tasksearch/tasksearch/v1/postgres"
	"github.com/tasksearch/tasksearch/v1/server"
	"github.com/tasksearch/tasksearch/v1/tasks"
	"github.com/tasksearch/tasksearch/v1/tracer"
)

func main() {
	fx.New(
		fx.WithLogger(logger.FxEventLogger),
		config.FXModule,
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		postgres.FXModule,
		embedding.FXModule,
		tasks.FXModule,
		server.FXModule,
	).Run()
}
