package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avast/retry-go"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/debug"
)

// SQLEngine implements Adapter over database/sql. Dialect adapters embed it
// and supply the driver name and error classifier.
type SQLEngine struct {
	db       *sql.DB
	config   Config
	driver   string
	dialect  domain.Dialect
	classify Classifier
	// afterOpen runs once on a fresh pool, e.g. to set session pragmas.
	afterOpen func(ctx context.Context, db *sql.DB) error
	// poolLimit overrides MaxConnections when positive.
	poolLimit int
}

// NewSQLEngine creates an engine that connects on Connect.
func NewSQLEngine(driver string, d domain.Dialect, cfg Config, classify Classifier) *SQLEngine {
	return &SQLEngine{driver: driver, dialect: d, config: cfg.withDefaults(), classify: classify}
}

// WithDB attaches an existing pool, bypassing Connect.
func (e *SQLEngine) WithDB(db *sql.DB) *SQLEngine {
	e.db = db
	return e
}

// SetAfterOpen installs a hook that runs after the pool first pings.
func (e *SQLEngine) SetAfterOpen(fn func(ctx context.Context, db *sql.DB) error) {
	e.afterOpen = fn
}

// SetPoolLimit caps open connections regardless of MaxConnections.
func (e *SQLEngine) SetPoolLimit(n int) {
	e.poolLimit = n
}

// Connect opens the pool and pings it, retrying transient failures with
// exponential backoff.
func (e *SQLEngine) Connect(ctx context.Context) error {
	db, err := ConnectWithRetry(ctx, e.config, func() (*sql.DB, error) {
		return sql.Open(e.driver, e.config.URL)
	})
	if err != nil {
		return err
	}

	maxOpen := e.config.MaxConnections
	if e.poolLimit > 0 {
		maxOpen = e.poolLimit
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns((maxOpen + 1) / 2)
	db.SetConnMaxIdleTime(e.config.MaxIdleTime)

	if e.afterOpen != nil {
		if err := e.afterOpen(ctx, db); err != nil {
			db.Close()
			return fmt.Errorf("%w: %v", ErrConnection, err)
		}
	}
	e.db = db
	return nil
}

// ConnectWithRetry opens and pings a pool, retrying with backoff until
// cfg.RetryAttempts is exhausted or ctx is done.
func ConnectWithRetry(ctx context.Context, cfg Config, open func() (*sql.DB, error)) (*sql.DB, error) {
	cfg = cfg.withDefaults()
	var db *sql.DB
	err := retry.Do(
		func() error {
			conn, err := open()
			if err != nil {
				return err
			}
			pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
			defer cancel()
			if err := conn.PingContext(pingCtx); err != nil {
				conn.Close()
				return err
			}
			db = conn
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(cfg.RetryAttempts),
		retry.Delay(cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			debug.Warn("database connect failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return db, nil
}

// Disconnect closes the pool.
func (e *SQLEngine) Disconnect(ctx context.Context) error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive.
func (e *SQLEngine) Ping(ctx context.Context) error {
	if e.db == nil {
		return ErrNotConnected
	}
	return e.db.PingContext(ctx)
}

// Dialect returns the SQL dialect.
func (e *SQLEngine) Dialect() domain.Dialect {
	return e.dialect
}

// DB returns the underlying pool.
func (e *SQLEngine) DB() *sql.DB {
	return e.db
}

// Query executes a query and scans every row into a Row.
func (e *SQLEngine) Query(ctx context.Context, query string, args []any) ([]Row, error) {
	if e.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Classify(err, e.classify)
	}
	defer rows.Close()
	out, err := ScanRows(rows)
	if err != nil {
		return nil, Classify(err, e.classify)
	}
	return out, nil
}

// Execute executes a write and reports affected rows and the last insert id
// when the driver provides one.
func (e *SQLEngine) Execute(ctx context.Context, query string, args []any) (ExecResult, error) {
	if e.db == nil {
		return ExecResult{}, ErrNotConnected
	}
	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, Classify(err, e.classify)
	}
	return NormalizeResult(res), nil
}

// NormalizeResult converts a sql.Result, ignoring values the driver does not support.
func NormalizeResult(res sql.Result) ExecResult {
	var out ExecResult
	if n, err := res.RowsAffected(); err == nil {
		out.Changes = n
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		out.LastInsertID = id
	}
	return out
}

// ScanRows reads all rows into maps, converting []byte values to string.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ensure SQLEngine implements Adapter interface.
var _ Adapter = (*SQLEngine)(nil)
