package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/MapBot_Go/internal/domain"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == PgErrorCodeUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == PgErrorCodeForeignKeyViolation
}

// storageErr marks err as a backend failure while keeping the driver error in the chain
func storageErr(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, msg, err)
}

// segmentInsertErr maps constraint violations of a segment insert to domain errors
func segmentInsertErr(msg string, profileID int64, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: profile %d", domain.ErrDuplicateSegment, profileID)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %d", domain.ErrProfileNotFound, profileID)
	case pgErrorCode(err) == PgErrorCodeCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrInvalidSegment, err.Error())
	default:
		return storageErr(msg, err)
	}
}
