package errors

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Classify maps a database error to a storage error code. Driver-specific
// classification is tried first, then standard library errors, then message
// matching as a last resort.
func Classify(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "unique constraint"):
		return ErrCodeDuplicate
	case strings.Contains(errStr, "constraint"):
		return ErrCodeConstraint
	case strings.Contains(errStr, "database is locked"):
		return ErrCodeBusy
	case strings.Contains(errStr, "database disk image is malformed"):
		return ErrCodeCorruption
	case strings.Contains(errStr, "no such table"), strings.Contains(errStr, "no such column"):
		return ErrCodeSchema
	case strings.Contains(errStr, "permission denied"), strings.Contains(errStr, "access denied"):
		return ErrCodePermission
	case strings.Contains(errStr, "timeout"):
		return ErrCodeTimeout
	case strings.Contains(errStr, "deadlock"):
		return ErrCodeTransaction
	case strings.Contains(errStr, "connection refused"):
		return ErrCodeConnection
	default:
		return ErrCodeUnknown
	}
}

// Wrap classifies and wraps a database error.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return New(op, err, Classify(err))
}

// WrapWithContext classifies and wraps a database error with extra context.
func WrapWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	return NewWithContext(op, err, Classify(err), contextMap)
}

// NotFound creates a standardized not-found error.
func NotFound(op string, resource string, identifier string) error {
	return NewWithContext(op, sql.ErrNoRows, ErrCodeNotFound, map[string]string{
		"resource":   resource,
		"identifier": identifier,
	})
}

// Validation creates a standardized validation error.
func Validation(op string, field string, value string, reason string) error {
	return NewWithContext(op, errors.New("validation failed"), ErrCodeValidation, map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	})
}

// Connection creates a standardized connection error.
func Connection(op string, details string) error {
	return NewWithContext(op, errors.New("connection error"), ErrCodeConnection, map[string]string{
		"details": details,
	})
}
