// Package pgtest starts a disposable pgvector-enabled PostgreSQL container for
// integration tests.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/tasksearch/tasksearch/v1/postgres"
)

const (
	Image    = "pgvector/pgvector:pg16"
	user     = "testuser"
	password = "testpass"
	database = "testdb"
)

// Container is a running PostgreSQL container and the config to reach it.
type Container struct {
	testcontainers.Container
	Config postgres.Config
	Host   string
	Port   string
}

// Start runs the container and blocks until it accepts connections.
func Start(ctx context.Context) (*Container, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}

	portStr := fmt.Sprintf("%d", port)
	portBindings := nat.PortMap{
		"5432/tcp": []nat.PortBinding{{HostPort: portStr}},
	}

	req := testcontainers.ContainerRequest{
		Image: Image,
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       database,
		},
		ExposedPorts: []string{"5432/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	mappedPort, err := c.MappedPort(ctx, "5432")
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	portStr = mappedPort.Port()

	if err := waitForPostgresReady(host, portStr, 30*time.Second); err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("postgres container not ready: %w", err)
	}

	return &Container{
		Container: c,
		Config: postgres.Config{
			Connection: postgres.Connection{
				Host:     host,
				Port:     portStr,
				User:     user,
				Password: password,
				DbName:   database,
				SSLMode:  "disable",
			},
			ConnectionDetails: postgres.ConnectionDetails{
				MaxOpenConns:     10,
				MaxIdleConns:     5,
				ConnMaxLifetime:  time.Minute,
				ConnectTimeout:   5 * time.Second,
				StatementTimeout: 10 * time.Second,
			},
		},
		Host: host,
		Port: portStr,
	}, nil
}

func getFreePort() (int, error) {
	addr, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer addr.Close()

	return addr.Addr().(*net.TCPAddr).Port, nil
}

// waitForPostgresReady polls with lib/pq until a ping succeeds or timeout passes.
func waitForPostgresReady(host, port string, timeout time.Duration) error {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, database)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		db, err := sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("timed out after %s waiting for postgres at %s:%s", timeout, host, port)
}
