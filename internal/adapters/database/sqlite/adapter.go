// Package sqlite implements SQLite database adapter.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// SQLiteAdapter implements the database.Adapter interface for SQLite.
type SQLiteAdapter struct {
	*database.SQLEngine
}

// NewSQLiteAdapter creates a new SQLite adapter. The URL is a file path or
// a file: URI.
func NewSQLiteAdapter(config database.Config) *SQLiteAdapter {
	e := database.NewSQLEngine("sqlite3", domain.SQLite, config, Classify)
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	e.SetPoolLimit(1)
	// Foreign keys are disabled by default in SQLite.
	e.SetAfterOpen(func(ctx context.Context, db *sql.DB) error {
		_, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
		return err
	})
	return &SQLiteAdapter{SQLEngine: e}
}

// NewWithDB wraps an existing pool.
func NewWithDB(db *sql.DB) *SQLiteAdapter {
	a := NewSQLiteAdapter(database.Config{})
	a.WithDB(db)
	return a
}

// Classify maps sqlite3 constraint errors to adapter sentinels.
func Classify(err error) error {
	var sqErr sqlite3.Error
	if !errors.As(err, &sqErr) || sqErr.Code != sqlite3.ErrConstraint {
		return nil
	}
	switch sqErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return database.ErrUniqueConstraint
	case sqlite3.ErrConstraintForeignKey:
		return database.ErrForeignKeyConstraint
	case sqlite3.ErrConstraintNotNull:
		return database.ErrNullConstraint
	}
	return nil
}

// Ensure SQLiteAdapter implements Adapter interface.
var _ database.Adapter = (*SQLiteAdapter)(nil)
