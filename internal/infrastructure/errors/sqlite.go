package errors

import (
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// classifySQLiteError classifies SQLite driver errors via type assertion.
// Returns ErrCodeUnknown when err is not a sqlite3.Error.
func classifySQLiteError(err error) ErrorCode {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return ErrCodeUnknown
	}

	// Extended codes carry the most specific classification
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrCodeDuplicate
	case sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintCheck,
		sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintTrigger, sqlite3.ErrConstraintRowID:
		return ErrCodeConstraint
	}

	switch sqliteErr.Code {
	case sqlite3.ErrConstraint:
		if strings.Contains(strings.ToLower(sqliteErr.Error()), "unique") {
			return ErrCodeDuplicate
		}
		return ErrCodeConstraint

	case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
		return ErrCodeCorruption

	case sqlite3.ErrPerm, sqlite3.ErrAuth, sqlite3.ErrReadonly:
		return ErrCodePermission

	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return ErrCodeBusy

	case sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
		return ErrCodeConnection

	case sqlite3.ErrMisuse:
		return ErrCodeInternal

	case sqlite3.ErrSchema:
		return ErrCodeSchema

	default:
		return ErrCodeUnknown
	}
}
