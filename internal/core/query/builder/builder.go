// Package builder implements the persistent fluent query builder. Every
// method returns a new Builder; the receiver is never modified, so a
// preconfigured base can be extended from many goroutines.
package builder

import (
	"fmt"

	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/core/query/compiler"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/core/tenancy"
)

// Config is the read-only configuration shared by every builder derived
// from New.
type Config struct {
	Dialect  domain.Dialect
	Tenancy  tenancy.Config
	TenantID string
}

// shared is never mutated after New.
type shared struct {
	assembler *compiler.Assembler
	tenancy   *tenancy.Resolver
}

// Builder accumulates one query. The zero value is not usable; call New.
type Builder struct {
	shared   *shared
	tenantID string
	table    string
	columns  []string
	where    []domain.Condition
	rls      []domain.Condition
	orderBy  []domain.OrderBy
	limit    *uint
	offset   *uint
}

// New creates a base builder.
func New(cfg Config) Builder {
	return Builder{
		shared: &shared{
			assembler: compiler.NewAssembler(cfg.Dialect),
			tenancy:   tenancy.NewResolver(cfg.Tenancy),
		},
		tenantID: cfg.TenantID,
	}
}

// grow returns a copy of s with room for n more elements, so appends on the
// result never write into the receiver's backing array.
func grow[T any](s []T, n int) []T {
	out := make([]T, len(s), len(s)+n)
	copy(out, s)
	return out
}

// From sets the logical table.
func (b Builder) From(table string) Builder {
	b.table = table
	return b
}

// Select sets the column list. No columns selects *.
func (b Builder) Select(columns ...string) Builder {
	b.columns = append([]string(nil), columns...)
	return b
}

// Where appends filters joined with AND.
func (b Builder) Where(filters ...domain.Filter) Builder {
	b.where = append(grow(b.where, len(filters)), domain.Conditions(filters...)...)
	return b
}

// WhereGroup appends a parenthesized group of filters.
func (b Builder) WhereGroup(combinator domain.Combinator, filters ...domain.Filter) Builder {
	fs := make([]domain.Filter, len(filters))
	copy(fs, filters)
	b.where = append(grow(b.where, 1), domain.Group{Combinator: combinator, Filters: fs})
	return b
}

// Restrict appends the row-level security predicates of a resolution. They
// are emitted after the caller's filters.
func (b Builder) Restrict(res policy.Resolution) Builder {
	conds := res.Conditions()
	b.rls = append(grow(b.rls, len(conds)), conds...)
	return b
}

// OrderBy appends a sort key.
func (b Builder) OrderBy(field string, dir domain.Direction) Builder {
	b.orderBy = append(grow(b.orderBy, 1), domain.OrderBy{Field: field, Direction: dir})
	return b
}

// Limit sets the row limit.
func (b Builder) Limit(n uint) Builder {
	b.limit = domain.Uint(n)
	return b
}

// Offset sets the row offset.
func (b Builder) Offset(n uint) Builder {
	b.offset = domain.Uint(n)
	return b
}

// Tenant overrides the tenant id.
func (b Builder) Tenant(tenantID string) Builder {
	b.tenantID = tenantID
	return b
}

// Table returns the physical table after tenancy resolution.
func (b Builder) Table() string {
	if b.shared == nil {
		return b.table
	}
	return b.shared.tenancy.ResolveTable(b.table, b.tenantID)
}

// Conditions returns caller filters, then RLS predicates, then the tenant filter.
func (b Builder) Conditions() []domain.Condition {
	out := make([]domain.Condition, 0, len(b.where)+len(b.rls)+1)
	out = append(out, b.where...)
	out = append(out, b.rls...)
	if b.shared != nil {
		if f, ok := b.shared.tenancy.TenantFilter(b.tenantID); ok {
			out = append(out, f)
		}
	}
	return out
}

// Options returns the accumulated query options.
func (b Builder) Options() domain.QueryOptions {
	opts := domain.QueryOptions{
		Columns: grow(b.columns, 0),
		OrderBy: grow(b.orderBy, 0),
	}
	if b.limit != nil {
		opts.Limit = domain.Uint(*b.limit)
	}
	if b.offset != nil {
		opts.Offset = domain.Uint(*b.offset)
	}
	return opts
}

func (b Builder) check() error {
	if b.shared == nil {
		return fmt.Errorf("%w: builder not created with New", domain.ErrInvalidInput)
	}
	if b.table == "" {
		return fmt.Errorf("%w: no table, call From", domain.ErrInvalidInput)
	}
	return nil
}

// ToSQL compiles a SELECT statement.
func (b Builder) ToSQL() (domain.Statement, error) {
	if err := b.check(); err != nil {
		return domain.Statement{}, err
	}
	return b.shared.assembler.Select(b.Table(), b.Conditions(), b.Options())
}

// CountSQL compiles a COUNT statement. Ordering and pagination are ignored.
func (b Builder) CountSQL() (domain.Statement, error) {
	if err := b.check(); err != nil {
		return domain.Statement{}, err
	}
	return b.shared.assembler.Count(b.Table(), b.Conditions())
}
