package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation checks if the error is a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
// Fires when a concurrent writer slips between an application existence check and
// the guarded write.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsIntegrityViolation reports whether the error is any constraint violation the
// application pre-checks are meant to prevent.
func IsIntegrityViolation(err error) bool {
	return IsUniqueViolation(err) || IsForeignKeyViolation(err)
}
