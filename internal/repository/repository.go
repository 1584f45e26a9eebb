package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "puppaka/internal/errors"
)

const newestFirst = "created_at DESC, id DESC"

// translate maps driver and GORM failures onto the application error taxonomy.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsValidation(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	case isDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, apperrors.ErrConflict)
	case isUnavailable(err):
		return fmt.Errorf("%s: %w: %v", op, apperrors.ErrStorageUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || // sqlite
		strings.Contains(msg, "duplicate entry") || // mysql
		strings.Contains(msg, "duplicate key value") // postgres
}

func isUnavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is closed") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such table")
}

func checkPage(limit, offset int) error {
	if limit < 0 {
		return apperrors.NewValidationError("limit", "must not be negative")
	}
	if offset < 0 {
		return apperrors.NewValidationError("offset", "must not be negative")
	}
	return nil
}
