package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun/driver/pgdriver"
)

var (
	// ErrStore marks a failure of the store itself: connectivity, bad SQL,
	// a rejected write. It is never used for "no matching row".
	ErrStore = errors.New("store failure")

	// ErrConstraint is a store failure caused by a schema constraint.
	ErrConstraint = fmt.Errorf("%w: constraint violation", ErrStore)
)

// Classify turns a driver error into the store taxonomy. sql.ErrNoRows is
// passed through unchanged so callers can map it to their own not-found error.
func Classify(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if errors.Is(err, ErrStore) {
		return err
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
		return fmt.Errorf("%w: %s", ErrConstraint, pgErr.Field('M'))
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}
