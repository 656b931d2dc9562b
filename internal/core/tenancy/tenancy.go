// Package tenancy rewrites table names and injects tenant predicates and
// column values according to the configured isolation strategy.
package tenancy

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// Strategy is a tenant isolation mechanism.
type Strategy string

const (
	// StrategyNone disables tenancy.
	StrategyNone Strategy = "none"
	// StrategySchema qualifies tables with the tenant schema.
	StrategySchema Strategy = "schema"
	// StrategyTablePrefix prefixes table names with the tenant id.
	StrategyTablePrefix Strategy = "table-prefix"
	// StrategyColumn filters and stamps rows by a tenant column.
	StrategyColumn Strategy = "column"
)

// Defaults applied by Config.WithDefaults.
const (
	DefaultColumnName = "tenant_id"
	DefaultSeparator  = "_"
	DefaultTenant     = "public"
)

// ParseStrategy parses a strategy name. Empty means none.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyNone:
		return StrategyNone, nil
	case StrategySchema:
		return StrategySchema, nil
	case StrategyTablePrefix, "prefix", "table_prefix":
		return StrategyTablePrefix, nil
	case StrategyColumn:
		return StrategyColumn, nil
	}
	return "", fmt.Errorf("%w: unknown tenancy strategy %q", domain.ErrInvalidInput, s)
}

// Config is the tenancy configuration.
type Config struct {
	Strategy      Strategy
	ColumnName    string
	Separator     string
	DefaultTenant string
}

// WithDefaults fills unset fields.
func (c Config) WithDefaults() Config {
	if c.Strategy == "" {
		c.Strategy = StrategyNone
	}
	if c.ColumnName == "" {
		c.ColumnName = DefaultColumnName
	}
	if c.Separator == "" {
		c.Separator = DefaultSeparator
	}
	if c.DefaultTenant == "" {
		c.DefaultTenant = DefaultTenant
	}
	return c
}

// Resolver applies a tenancy Config. It holds no mutable state.
type Resolver struct {
	config Config
}

// NewResolver creates a resolver, applying defaults to cfg.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{config: cfg.WithDefaults()}
}

// Config returns the effective configuration.
func (r *Resolver) Config() Config {
	return r.config
}

// tenant maps an empty tenant id to the default tenant.
func (r *Resolver) tenant(tenantID string) string {
	if tenantID == "" {
		return r.config.DefaultTenant
	}
	return tenantID
}

// isDefault reports whether tenantID is the default tenant.
func (r *Resolver) isDefault(tenantID string) bool {
	return r.tenant(tenantID) == r.config.DefaultTenant
}

// ResolveTable returns the physical table name for the tenant. The result is
// validated when the statement is assembled.
func (r *Resolver) ResolveTable(table, tenantID string) string {
	switch r.config.Strategy {
	case StrategySchema:
		return r.tenant(tenantID) + "." + table
	case StrategyTablePrefix:
		return r.tenant(tenantID) + r.config.Separator + table
	}
	return table
}

// TenantFilter returns the tenant predicate for column strategy and a
// non-default tenant.
func (r *Resolver) TenantFilter(tenantID string) (domain.Filter, bool) {
	if r.config.Strategy != StrategyColumn || r.isDefault(tenantID) {
		return domain.Filter{}, false
	}
	return domain.Filter{Field: r.config.ColumnName, Operator: domain.Eq, Value: tenantID}, true
}

// InjectFilter returns filters with the tenant predicate appended when one
// applies. The input slice is never modified.
func (r *Resolver) InjectFilter(filters []domain.Filter, tenantID string) []domain.Filter {
	out := make([]domain.Filter, len(filters), len(filters)+1)
	copy(out, filters)
	if f, ok := r.TenantFilter(tenantID); ok {
		out = append(out, f)
	}
	return out
}

// InjectWriteData returns a copy of record with the tenant column set when
// one applies. A caller-supplied tenant column is overwritten.
func (r *Resolver) InjectWriteData(record *domain.Record, tenantID string) *domain.Record {
	out := record.Clone()
	if f, ok := r.TenantFilter(tenantID); ok {
		out.Set(f.Field, f.Value)
	}
	return out
}
