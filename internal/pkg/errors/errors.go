package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate marks a write rejected by a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate")
	// ErrRejected marks a write the store refused for any other reason.
	ErrRejected = errors.New("rejected")
)

// Postgres SQLSTATE codes treated as a rejected write rather than an outage.
const (
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
)

// ValidationError is the store's "save refused" failure. Field and Value
// name the input the store objected to.
type ValidationError struct {
	Entity string
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s validation failed: %s %s", e.Entity, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid builds a ValidationError for a field-level rule violation.
func Invalid(entity, field string, value any, reason string) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Value: value, Reason: reason, Err: ErrRejected}
}

// ClassifyWrite turns a raw write error into a ValidationError when the
// store rejected the data. Cancellations and connection faults come back
// unchanged.
func ClassifyWrite(entity, field string, value any, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if isDuplicate(err) {
		return &ValidationError{Entity: entity, Field: field, Value: value, Reason: "must be unique", Err: fmt.Errorf("%w: %w", ErrDuplicate, err)}
	}
	if isConstraint(err) {
		return &ValidationError{Entity: entity, Field: field, Value: value, Reason: "violates a constraint", Err: fmt.Errorf("%w: %w", ErrRejected, err)}
	}
	return err
}

// IsDuplicate reports whether err is a uniqueness rejection.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate) || isDuplicate(err)
}

// IsValidation reports whether the store refused a write.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isConstraint(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) || errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgNotNullViolation, pgForeignKeyViolation, pgCheckViolation, pgStringTooLong:
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "NOT NULL constraint failed") ||
		strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
