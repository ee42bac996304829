package postgres

import (
	"context"
)

// Delete deletes records that match the given conditions and reports how many
// rows were removed.
func (p *Postgres) Delete(ctx context.Context, value interface{}, conditions ...interface{}) (int64, error) {
	result := p.DB().WithContext(ctx).Delete(value, conditions...)
	return result.RowsAffected, result.Error
}

// ScanRaw executes raw SQL that returns rows (including INSERT ... RETURNING)
// and scans them into dest.
func (p *Postgres) ScanRaw(ctx context.Context, dest interface{}, sql string, values ...interface{}) error {
	return p.DB().WithContext(ctx).Raw(sql, values...).Scan(dest).Error
}
