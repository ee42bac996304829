// Package postgres wraps GORM's PostgreSQL driver with connection monitoring,
// automatic reconnection and error classification.
//
// # Connection
//
// Configuration uses the libpq environment names:
//
//	PGHOST=localhost PGPORT=5432 PGUSER=postgres PGPASSWORD=... PGDATABASE=tasksdb PGSSLMODE=disable
//
// Pool sizing (PG_MAX_OPEN_CONNS, PG_MAX_IDLE_CONNS, PG_CONN_MAX_LIFETIME) and
// timeouts (PG_CONNECT_TIMEOUT, PG_STATEMENT_TIMEOUT) are optional. The
// statement timeout is sent as a session parameter, so every query is bounded
// by the server.
//
// # Monitoring
//
// FXModule starts two goroutines: MonitorConnection pings every 10 seconds and
// RetryConnection swaps in a fresh *gorm.DB after a failed ping. Readers always
// go through DB(), which loads the current pointer atomically. The replaced
// pool stays open for one statement timeout so queries already running on it
// can finish.
//
// # Errors
//
// Query, ScanRaw and Delete return raw GORM/driver errors. TranslateError maps them to the
// package sentinels (ErrDuplicateKey, ErrCheckViolation, ErrInvalidInput,
// ErrConnection, ErrTimeout, ...), GetErrorCategory groups them and
// IsRetryable tells callers whether resubmitting could help. Nothing here
// retries a failed statement.
package postgres
