package database

import (
	"errors"
	"fmt"
)

// Error types for adapter operations.
var (
	// ErrUniqueConstraint is returned when a unique constraint is violated.
	ErrUniqueConstraint = errors.New("sqlguard: unique constraint violation")

	// ErrForeignKeyConstraint is returned when a foreign key constraint is violated.
	ErrForeignKeyConstraint = errors.New("sqlguard: foreign key constraint violation")

	// ErrNullConstraint is returned when a null constraint is violated.
	ErrNullConstraint = errors.New("sqlguard: null constraint violation")

	// ErrConnection is returned when the database cannot be reached.
	ErrConnection = errors.New("sqlguard: connection error")

	// ErrNotConnected is returned when an adapter is used before Connect.
	ErrNotConnected = errors.New("sqlguard: database not connected")
)

// Classifier maps a driver error to one of the constraint sentinels, or nil.
type Classifier func(err error) error

// DriverError wraps a driver error with its classification.
type DriverError struct {
	Kind  error
	Cause error
}

// Error implements the error interface.
func (e *DriverError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Cause)
}

// Unwrap returns the underlying driver error.
func (e *DriverError) Unwrap() error {
	return e.Cause
}

// Is matches the classification sentinel.
func (e *DriverError) Is(target error) bool {
	return target == e.Kind
}

// Classify wraps err with its classification when classify recognizes it.
func Classify(err error, classify Classifier) error {
	if err == nil || classify == nil {
		return err
	}
	if kind := classify(err); kind != nil {
		return &DriverError{Kind: kind, Cause: err}
	}
	return err
}
