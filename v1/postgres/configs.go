package postgres

import "time"

// Config holds connection and pool settings. The connection variables follow
// the libpq names (PGHOST, PGPORT, ...).
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

type Connection struct {
	Host     string `env:"PGHOST" envDefault:"localhost"`
	Port     string `env:"PGPORT" envDefault:"5432"`
	User     string `env:"PGUSER" envDefault:"postgres"`
	Password string `env:"PGPASSWORD"`
	DbName   string `env:"PGDATABASE" envDefault:"tasksdb"`
	SSLMode  string `env:"PGSSLMODE" envDefault:"disable"`
}

type ConnectionDetails struct {
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"50"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"25"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"1m"`

	// ConnectTimeout bounds establishing a connection; StatementTimeout is
	// enforced server-side on every statement. Zero disables either.
	ConnectTimeout   time.Duration `env:"PG_CONNECT_TIMEOUT" envDefault:"5s"`
	StatementTimeout time.Duration `env:"PG_STATEMENT_TIMEOUT" envDefault:"10s"`
}
