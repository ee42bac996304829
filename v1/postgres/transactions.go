package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Transaction runs fn inside a database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
//
//	err := pg.Transaction(ctx, func(tx *gorm.DB) error {
//		return tx.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error
//	})
func (p *Postgres) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return p.DB().WithContext(ctx).Transaction(fn)
}
