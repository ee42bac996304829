package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/logger"
	"github.com/tasksearch/tasksearch/v1/metrics"
	"github.com/tasksearch/tasksearch/v1/postgres"
	"github.com/tasksearch/tasksearch/v1/server"
	"github.com/tasksearch/tasksearch/v1/tasks"
	"github.com/tasksearch/tasksearch/v1/tracer"
)

// Config is the configuration of every component.
type Config struct {
	Logger    logger.Config
	Tracer    tracer.Config
	Metrics   metrics.Config
	Postgres  postgres.Config
	Embedding embedding.Config
	Tasks     tasks.Config
	Server    server.Config
}

// Load reads the given .env files (".env" when none are given) into the
// process environment, then parses and validates the configuration. Missing
// files are skipped and variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every component that has constraints beyond its types.
func (c Config) Validate() error {
	return errors.Join(
		c.Embedding.Validate(),
		c.Tasks.Validate(),
		c.Server.Validate(),
	)
}
