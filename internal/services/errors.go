package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// ReconciliationConflict is returned when an order save could not be applied
// as a whole. Nothing of the save was persisted.
type ReconciliationConflict struct {
	OrderID uuid.UUID
	Err     error
}

func (e *ReconciliationConflict) Error() string {
	return fmt.Sprintf("order %s could not be saved: %v", e.OrderID, e.Err)
}

func (e *ReconciliationConflict) Unwrap() error {
	return e.Err
}

// Postgres error codes that mean a concurrent writer got in the way.
var conflictCodes = map[string]bool{
	"23503": true, // foreign_key_violation
	"23505": true, // unique_violation
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

// IsConflict reports whether err is a reconciliation conflict or a database
// error caused by concurrent modification.
func IsConflict(err error) bool {
	var rc *ReconciliationConflict
	if errors.As(err, &rc) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return conflictCodes[pgErr.Code]
	}
	return false
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound turns gorm's missing-row error into ErrNotFound naming the entity.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", entity, ErrNotFound)
	}
	return err
}
