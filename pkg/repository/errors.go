package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgRaiseException      = "P0001"
)

// Errors names the domain errors a repository maps database failures onto.
// A nil field leaves the matching failure unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	Reference error
	Immutable error
}

// Map translates err using the configured domain errors.
// sql.ErrNoRows maps to NotFound, unique violations to Duplicate,
// foreign key violations to Reference, and trigger-raised exceptions to Immutable.
// Other errors are returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgUniqueViolation && e.Duplicate != nil:
		return e.Duplicate
	case pgErr.Code == pgForeignKeyViolation && e.Reference != nil:
		return e.Reference
	case pgErr.Code == pgRaiseException && e.Immutable != nil:
		return e.Immutable
	}

	return err
}

// MapError translates database errors to domain errors.
// It maps sql.ErrNoRows to notFoundErr and PostgreSQL unique violation (23505)
// to duplicateErr. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	return Errors{NotFound: notFoundErr, Duplicate: duplicateErr}.Map(err)
}
