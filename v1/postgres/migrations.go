package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Migrate executes the given DDL statements in order inside one transaction.
// Statements should be idempotent (IF NOT EXISTS) because they run on every start.
func (p *Postgres) Migrate(ctx context.Context, statements ...string) error {
	return p.Transaction(ctx, func(tx *gorm.DB) error {
		for i, stmt := range statements {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("migration statement %d: %w", i, err)
			}
		}
		return nil
	})
}
