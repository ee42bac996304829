package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// DB returns the current underlying GORM DB client.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

// Ping verifies connectivity. It doubles as the readiness check.
func (p *Postgres) Ping(ctx context.Context) error {
	dbConn := p.DB()
	if dbConn == nil {
		return fmt.Errorf("database Client is not initialized")
	}

	db, err := dbConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}
	return nil
}
