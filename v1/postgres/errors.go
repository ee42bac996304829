package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
// They abstract away GORM and driver specific error details.
var (
	// ErrRecordNotFound is returned when a query doesn't find any matching records
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrCheckViolation is returned when a row violates a CHECK constraint
	ErrCheckViolation = errors.New("check constraint violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidInput is returned when the server rejects a value, e.g. a malformed
	// vector literal or a vector of the wrong dimension
	ErrInvalidInput = errors.New("invalid input value")

	// ErrConnection is returned when the server cannot be reached or the connection dropped
	ErrConnection = errors.New("database connection error")

	// ErrTimeout is returned when a statement was cancelled by statement_timeout or the context deadline
	ErrTimeout = errors.New("database operation timed out")
)

// ErrorCategory groups errors by how a caller should react to them.
type ErrorCategory string

const (
	CategoryNotFound   ErrorCategory = "not_found"
	CategoryConstraint ErrorCategory = "constraint"
	CategoryInput      ErrorCategory = "input"
	CategoryConnection ErrorCategory = "connection"
	CategoryTimeout    ErrorCategory = "timeout"
	CategoryUnknown    ErrorCategory = "unknown"
)

// TranslateError converts GORM and PostgreSQL errors into the sentinels above.
// Errors it does not recognise are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrCheckViolation
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return ErrDuplicateKey
		case pgErr.Code == "23503":
			return ErrForeignKey
		case pgErr.Code == "23514":
			return ErrCheckViolation
		case pgErr.Code == "57014":
			return ErrTimeout
		case strings.HasPrefix(pgErr.Code, "22"):
			// data exceptions: invalid_text_representation, string_data_right_truncation,
			// and pgvector's "expected N dimensions, not M"
			return ErrInvalidInput
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01":
			return ErrConnection
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrTimeout
		}
		return ErrConnection
	}
	if errors.Is(err, driver.ErrBadConn) || pgconn.SafeToRetry(err) {
		return ErrConnection
	}

	return err
}

// GetErrorCategory classifies err for logging and retry decisions.
func GetErrorCategory(err error) ErrorCategory {
	switch translated := TranslateError(err); {
	case translated == nil:
		return CategoryUnknown
	case errors.Is(translated, ErrRecordNotFound):
		return CategoryNotFound
	case errors.Is(translated, ErrDuplicateKey), errors.Is(translated, ErrForeignKey), errors.Is(translated, ErrCheckViolation):
		return CategoryConstraint
	case errors.Is(translated, ErrInvalidInput), errors.Is(translated, ErrInvalidData):
		return CategoryInput
	case errors.Is(translated, ErrConnection):
		return CategoryConnection
	case errors.Is(translated, ErrTimeout):
		return CategoryTimeout
	default:
		return CategoryUnknown
	}
}

// IsRetryable reports whether resubmitting the same operation could succeed.
// Nothing in this package retries on its own.
func IsRetryable(err error) bool {
	switch GetErrorCategory(err) {
	case CategoryConnection, CategoryTimeout:
		return true
	default:
		return false
	}
}
