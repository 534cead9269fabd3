package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/osse101/MapBot_Go/internal/domain"
)

func sqliteCode(err error) (int, string, bool) {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code(), se.Error(), true
	}
	return 0, "", false
}

func isUniqueViolation(err error) bool {
	code, msg, ok := sqliteCode(err)
	if !ok {
		return false
	}
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(msg, "UNIQUE constraint failed")
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	code, msg, ok := sqliteCode(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY ||
		(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "FOREIGN KEY constraint failed"))
}

func isCheckViolation(err error) bool {
	code, msg, ok := sqliteCode(err)
	if !ok {
		return false
	}
	return code == sqlite3.SQLITE_CONSTRAINT_CHECK ||
		(code == sqlite3.SQLITE_CONSTRAINT && strings.Contains(msg, "CHECK constraint failed"))
}

// storageErr marks err as a backend failure while keeping the driver error in the chain
func storageErr(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, msg, err)
}

// segmentInsertErr maps constraint violations of a segment insert to domain errors
func segmentInsertErr(profileID int64, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: profile %d", domain.ErrDuplicateSegment, profileID)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	case isCheckViolation(err):
		return fmt.Errorf("%w: %s", domain.ErrInvalidSegment, err.Error())
	default:
		return storageErr(ErrMsgFailedToInsertSegment, err)
	}
}
