package client

import (
	"errors"

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// Sentinel errors for common error conditions.
var (
	ErrNotFound             = domain.ErrNotFound
	ErrInvalidIdentifier    = domain.ErrInvalidIdentifier
	ErrUnsupportedOperator  = domain.ErrUnsupportedOperator
	ErrInvalidInput         = domain.ErrInvalidInput
	ErrUnknownField         = domain.ErrUnknownField
	ErrPolicyMismatch       = domain.ErrPolicyMismatch
	ErrAmbiguousRole        = domain.ErrAmbiguousRole
	ErrUniqueConstraint     = database.ErrUniqueConstraint
	ErrForeignKeyConstraint = database.ErrForeignKeyConstraint
	ErrNullConstraint       = database.ErrNullConstraint
	ErrConnection           = database.ErrConnection
)

// Typed errors.
type (
	InvalidIdentifierError   = domain.InvalidIdentifierError
	UnsupportedOperatorError = domain.UnsupportedOperatorError
	NotFoundError            = domain.NotFoundError
)

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUniqueConstraint checks if an error is a unique constraint violation.
func IsUniqueConstraint(err error) bool {
	return errors.Is(err, ErrUniqueConstraint)
}

// IsForeignKeyConstraint checks if an error is a foreign key constraint violation.
func IsForeignKeyConstraint(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}

// IsPolicyMismatch checks if a request was denied for matching no role.
func IsPolicyMismatch(err error) bool {
	return errors.Is(err, ErrPolicyMismatch)
}
