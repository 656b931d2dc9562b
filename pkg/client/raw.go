package client

import (
	"context"
	"database/sql"

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/debug"
)

// UnsafeRawAccess executes arbitrary SQL with no tenancy or row-level
// security applied. It is deliberately not reachable from Client; build one
// with NewUnsafeRawAccess from a pool you own.
type UnsafeRawAccess interface {
	// DB returns the underlying pool.
	DB() *sql.DB

	// QueryRaw executes a raw SQL query and returns rows.
	QueryRaw(ctx context.Context, query string, args ...any) ([]Row, error)

	// ExecuteRaw executes a raw SQL statement.
	ExecuteRaw(ctx context.Context, query string, args ...any) (ExecResult, error)
}

type unsafeRaw struct {
	db *sql.DB
}

// NewUnsafeRawAccess wraps db for policy-free access.
func NewUnsafeRawAccess(db *sql.DB) UnsafeRawAccess {
	debug.Warn("unsafe raw access created, row-level security and tenancy are bypassed")
	return &unsafeRaw{db: db}
}

func (r *unsafeRaw) DB() *sql.DB {
	return r.db
}

func (r *unsafeRaw) QueryRaw(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return database.ScanRows(rows)
}

func (r *unsafeRaw) ExecuteRaw(ctx context.Context, query string, args ...any) (ExecResult, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, err
	}
	return database.NormalizeResult(res), nil
}
