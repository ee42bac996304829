package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/tasksearch/tasksearch/v1/embedding"
	"github.com/tasksearch/tasksearch/v1/postgres"
	"github.com/tasksearch/tasksearch/v1/server"
)

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "http://embedding-service:6000/embed", cfg.Embedding.Endpoint)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, 3, cfg.Tasks.SearchLimit)
	assert.True(t, cfg.Tasks.AutoMigrate)
	assert.Equal(t, "5432", cfg.Postgres.Connection.Port)
	assert.Equal(t, 10*time.Second, cfg.Postgres.ConnectionDetails.StatementTimeout)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PGHOST", "db")
	t.Setenv("PGUSER", "tasks")
	t.Setenv("PGPASSWORD", "secret")
	t.Setenv("PORT", "8080")
	t.Setenv("EMBEDDING_DIMENSION", "768")
	t.Setenv("TASKS_SEARCH_LIMIT", "5")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, postgres.Connection{
		Host: "db", Port: "5432", User: "tasks", Password: "secret", DbName: "tasksdb", SSLMode: "disable",
	}, cfg.Postgres.Connection)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 768, cfg.Embedding.Dimension)
	assert.Equal(t, 5, cfg.Tasks.SearchLimit)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PGDATABASE=fromfile\nPORT=7000\n"), 0o600))

	t.Setenv("PORT", "9000")
	// Registered only so t.Setenv restores it after godotenv sets it.
	t.Setenv("PGDATABASE", "")
	require.NoError(t, os.Unsetenv("PGDATABASE"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", cfg.Postgres.Connection.DbName)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"GIN_MODE", "turbo"},
		{"TASKS_SEARCH_LIMIT", "0"},
		{"EMBEDDING_DIMENSION", "-1"},
		{"EMBEDDING_HTTP_TIMEOUT_SECONDS", "abc"},
		{"HTTP_READ_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(missingFile(t))
			assert.Error(t, err)
		})
	}
}

func TestFXModuleProvidesComponentConfigs(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "6001")

	var (
		srv server.Config
		emb embedding.Config
	)
	app := fxtest.New(t, FXModule, fx.Populate(&srv, &emb))
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, "6001", srv.Port)
	assert.Equal(t, 384, emb.Dimension)
}
