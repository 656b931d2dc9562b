package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/adapters/database/mysql"
	"github.com/satishbabariya/sqlguard/internal/adapters/database/postgres"
	"github.com/satishbabariya/sqlguard/internal/adapters/database/sqlite"
	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
)

// DatabaseConfig holds database connection configuration.
type DatabaseConfig = database.Config

// Adapter is a connected execution engine.
type Adapter = database.Adapter

// NewAdapter returns an unconnected adapter for cfg. The provider is taken
// from cfg.Provider, or inferred from the URL scheme.
func NewAdapter(cfg DatabaseConfig) (Adapter, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = providerFromURL(cfg.URL)
	}
	d, err := dialect.ParseDialect(provider)
	if err != nil {
		return nil, err
	}
	switch d {
	case PostgreSQL:
		return postgres.NewPostgresAdapter(cfg), nil
	case MySQL:
		return mysql.NewMySQLAdapter(cfg), nil
	default:
		return sqlite.NewSQLiteAdapter(cfg), nil
	}
}

// Open creates and connects an adapter.
func Open(ctx context.Context, cfg DatabaseConfig) (Adapter, error) {
	a, err := NewAdapter(cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func providerFromURL(raw string) string {
	if strings.HasPrefix(raw, "file:") || strings.HasSuffix(raw, ".db") || strings.HasSuffix(raw, ".sqlite") {
		return "sqlite"
	}
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" {
		return u.Scheme
	}
	return raw
}
