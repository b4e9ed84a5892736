package services

import (
	"database/sql"
	"errors"

	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/database"
)

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// storageError maps a storage failure to the application taxonomy.
// notFound is returned for sql.ErrNoRows.
func storageError(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound(notFound)
	case database.IsUniqueViolation(err):
		return apperr.Conflict("Email already exists")
	case database.IsForeignKeyViolation(err):
		return apperr.Unauthenticated("Account no longer exists")
	default:
		return apperr.Internal(err)
	}
}

// mustAffect turns a zero-row update or delete into a not found error.
func mustAffect(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		return apperr.NotFound(notFound)
	}
	return nil
}
