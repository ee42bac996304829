package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Query starts a fluent query bound to ctx.
//
// Example:
//
//	var tasks []Task
//	err := db.Query(ctx).
//	    Select("id, title, description, status").
//	    Order("id DESC").
//	    Limit(10).
//	    Find(&tasks)
func (p *Postgres) Query(ctx context.Context) *QueryBuilder {
	return &QueryBuilder{db: p.DB().WithContext(ctx)}
}

// QueryBuilder wraps GORM's chainable API. Modifiers return the builder;
// terminal methods execute the query.
type QueryBuilder struct {
	db *gorm.DB
}

// Select specifies the columns or expressions to select.
func (qb *QueryBuilder) Select(query interface{}, args ...interface{}) *QueryBuilder {
	qb.db = qb.db.Select(query, args...)
	return qb
}

// Order adds an ORDER BY clause. A clause.OrderBy value can carry bound arguments.
func (qb *QueryBuilder) Order(value interface{}) *QueryBuilder {
	qb.db = qb.db.Order(value)
	return qb
}

// Limit caps the number of returned rows.
func (qb *QueryBuilder) Limit(limit int) *QueryBuilder {
	qb.db = qb.db.Limit(limit)
	return qb
}

// Find executes the query and scans all rows into dest.
func (qb *QueryBuilder) Find(dest interface{}) error {
	return qb.db.Find(dest).Error
}
