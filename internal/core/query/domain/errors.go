package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for compiler and service failures.
var (
	// ErrInvalidIdentifier is returned when a table or field name fails the identifier grammar.
	ErrInvalidIdentifier = errors.New("sqlguard: invalid identifier")

	// ErrUnsupportedOperator is returned for an operator outside the closed operator set.
	ErrUnsupportedOperator = errors.New("sqlguard: unsupported operator")

	// ErrNotFound is returned when an update or delete affects zero rows.
	ErrNotFound = errors.New("sqlguard: record not found")

	// ErrInvalidInput is returned for structurally invalid requests.
	ErrInvalidInput = errors.New("sqlguard: invalid input")

	// ErrUnknownField is returned when a field is not part of the table definition.
	ErrUnknownField = errors.New("sqlguard: unknown field")

	// ErrPolicyMismatch is returned when the caller opted into deny-by-default
	// and no user role matches a configured restriction.
	ErrPolicyMismatch = errors.New("sqlguard: no matching role restriction")

	// ErrAmbiguousRole is returned when strict ranking is enabled and several
	// unranked roles match.
	ErrAmbiguousRole = errors.New("sqlguard: ambiguous role selection")
)

// InvalidIdentifierError describes an identifier rejected by the dialect profile.
type InvalidIdentifierError struct {
	Identifier string
	Segment    string
}

// Error implements the error interface.
func (e *InvalidIdentifierError) Error() string {
	if e.Segment != "" && e.Segment != e.Identifier {
		return fmt.Sprintf("sqlguard: invalid identifier %q (segment %q)", e.Identifier, e.Segment)
	}
	return fmt.Sprintf("sqlguard: invalid identifier %q", e.Identifier)
}

// Is reports whether target is ErrInvalidIdentifier.
func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// UnsupportedOperatorError describes an operator outside the closed set.
type UnsupportedOperatorError struct {
	Operator string
	Field    string
}

// Error implements the error interface.
func (e *UnsupportedOperatorError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("sqlguard: unsupported operator %q on field %q", e.Operator, e.Field)
	}
	return fmt.Sprintf("sqlguard: unsupported operator %q", e.Operator)
}

// Is reports whether target is ErrUnsupportedOperator.
func (e *UnsupportedOperatorError) Is(target error) bool {
	return target == ErrUnsupportedOperator
}

// NotFoundError is returned when an update or delete matched no row.
type NotFoundError struct {
	Table    string
	IDColumn string
	ID       any
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.IDColumn != "" {
		return fmt.Sprintf("sqlguard: no %s record with %s=%v", e.Table, e.IDColumn, e.ID)
	}
	return fmt.Sprintf("sqlguard: no %s record found", e.Table)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidIdentifier checks if an error is an identifier grammar failure.
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}
