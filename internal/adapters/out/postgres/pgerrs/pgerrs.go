// Package pgerrs translates PostgreSQL driver errors into the errs taxonomy.
package pgerrs

import (
	"errors"

	"storefront/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	checkViolation      = "23514"
	foreignKeyViolation = "23503"
)

// Translate maps constraint violations to domain errors and returns other
// errors unchanged. paramName names the written object in the resulting error.
func Translate(err error, paramName string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolation:
		return errs.NewConflictErrorWithCause(paramName, errors.New(pgErr.ConstraintName+": "+pgErr.Detail))
	case checkViolation, foreignKeyViolation:
		return errs.NewValueIsInvalidErrorWithCause(paramName, errors.New(pgErr.ConstraintName+": "+pgErr.Message))
	}
	return err
}
