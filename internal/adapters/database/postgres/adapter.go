// Package postgres implements PostgreSQL database adapter.
package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq" // PostgreSQL driver

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// PostgreSQL error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// PostgresAdapter implements the database.Adapter interface for PostgreSQL.
type PostgresAdapter struct {
	*database.SQLEngine
}

// NewPostgresAdapter creates a new PostgreSQL adapter.
func NewPostgresAdapter(config database.Config) *PostgresAdapter {
	return &PostgresAdapter{SQLEngine: database.NewSQLEngine("postgres", domain.PostgreSQL, config, Classify)}
}

// NewWithDB wraps an existing pool.
func NewWithDB(db *sql.DB) *PostgresAdapter {
	a := NewPostgresAdapter(database.Config{})
	a.WithDB(db)
	return a
}

// Classify maps pq errors to adapter sentinels.
func Classify(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	switch string(pqErr.Code) {
	case codeUniqueViolation:
		return database.ErrUniqueConstraint
	case codeForeignKeyViolation:
		return database.ErrForeignKeyConstraint
	case codeNotNullViolation:
		return database.ErrNullConstraint
	}
	return nil
}

// Ensure PostgresAdapter implements Adapter interface.
var _ database.Adapter = (*PostgresAdapter)(nil)
