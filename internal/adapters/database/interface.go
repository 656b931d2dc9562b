// Package database defines the execution engine contract and the shared
// database/sql plumbing used by the dialect adapters.
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// Row is one result row keyed by column name.
type Row map[string]any

// ExecResult is the normalized outcome of a write.
type ExecResult struct {
	Changes int64
	// LastInsertID is nil when the driver does not report one.
	LastInsertID any
}

// Engine executes compiled statements. It is the only component that
// touches a connection.
type Engine interface {
	// Query executes a statement that returns rows.
	Query(ctx context.Context, query string, args []any) ([]Row, error)

	// Execute executes a statement that does not return rows.
	Execute(ctx context.Context, query string, args []any) (ExecResult, error)
}

// Adapter is an Engine bound to a connection pool.
type Adapter interface {
	Engine

	// Connect establishes the connection pool.
	Connect(ctx context.Context) error

	// Disconnect closes the connection pool.
	Disconnect(ctx context.Context) error

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// Dialect returns the SQL dialect.
	Dialect() domain.Dialect

	// DB returns the underlying pool, or nil before Connect.
	DB() *sql.DB
}

// Config holds database connection configuration.
type Config struct {
	Provider       string
	URL            string
	MaxConnections int
	MaxIdleTime    time.Duration
	ConnectTimeout time.Duration
	// RetryAttempts bounds connection attempts; zero means 3.
	RetryAttempts uint
	// RetryDelay is the initial backoff delay; zero means 200ms.
	RetryDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxConnections <= 0 {
		c.MaxConnections = 10
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 200 * time.Millisecond
	}
	return c
}
