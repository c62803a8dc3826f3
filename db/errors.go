package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound: the referenced row does not exist (e.g. a dish was
	// removed between the keyboard render and the button press).
	ErrNotFound = errors.New("db: not found")
	// ErrInvalidValue: a value could not be converted to the column type,
	// typically a non-numeric price.
	ErrInvalidValue = errors.New("db: invalid value")
	// ErrUndefinedTable: the table has not been created yet. Before the
	// menu is bootstrapped this is an expected state, not a fault.
	ErrUndefinedTable = errors.New("db: undefined table")
)

const (
	sqlstateInvalidTextRepresentation = "22P02"
	sqlstateNumericValueOutOfRange    = "22003"
	sqlstateUndefinedTable            = "42P01"
)

// MapError classifies a pgx error into the package's typed errors. Errors
// with no mapping are returned unchanged so unexpected store faults keep
// propagating to the top-level handler.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateInvalidTextRepresentation, sqlstateNumericValueOutOfRange:
			return ErrInvalidValue
		case sqlstateUndefinedTable:
			return ErrUndefinedTable
		}
	}
	return err
}
