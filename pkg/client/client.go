// Package client provides the public sqlguard API: policy-aware data access
// that compiles every request into parameterized SQL.
package client

import (
	"context"
	"io"

	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/core/query/builder"
	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/core/schema"
	"github.com/satishbabariya/sqlguard/internal/service"
)

// Client runs entity requests through tenancy, row-level security and the
// statement compiler. It never exposes the underlying connection.
type Client struct {
	svc    *service.QueryService
	config Config
}

// New creates a client. engine may be nil when only Compile* and Builder
// are used. Dialect aliases such as "postgresql" and "sqlite3" are accepted.
func New(engine Engine, d Dialect, opts ...Option) (*Client, error) {
	d, err := dialect.ParseDialect(string(d))
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	ApplyOptions(cfg, opts...)
	if cfg.Policy == nil {
		cfg.Policy = policy.NewManager()
	}

	svcOpts := []service.Option{
		service.WithTenancy(cfg.Tenancy),
		service.WithPolicy(cfg.Policy),
		service.WithDenyUnmatched(cfg.DenyUnmatched),
		service.WithHooks(cfg.Hooks),
		service.WithLogger(cfg.Logger),
	}
	if len(cfg.Tables) > 0 {
		reg, err := schema.NewRegistry(cfg.Tables...)
		if err != nil {
			return nil, err
		}
		svcOpts = append(svcOpts, service.WithSchema(reg))
	}

	return &Client{
		svc:    service.NewQueryService(engine, d, svcOpts...),
		config: *cfg,
	}, nil
}

// Dialect returns the target dialect.
func (c *Client) Dialect() Dialect {
	return c.svc.Dialect()
}

// SetRoleRestrictions validates and atomically installs role restrictions.
func (c *Client) SetRoleRestrictions(r RoleRestrictions) error {
	return c.config.Policy.SetRoleRestrictions(r)
}

// SetRanking installs the role priority order.
func (c *Client) SetRanking(r Ranking) {
	c.config.Policy.SetRanking(r)
}

// LoadPolicy reads a YAML policy document and installs it.
func (c *Client) LoadPolicy(r io.Reader) error {
	return c.config.Policy.Load(r)
}

// ExposedConditions returns the caller-adjustable conditions for ctx.
func (c *Client) ExposedConditions(ctx Context) ([]PolicyCondition, error) {
	return c.svc.ExposedConditions(ctx)
}

// Resolve returns the row-level security resolution for ctx.
func (c *Client) Resolve(ctx Context, inputs map[string]any) (Resolution, error) {
	return c.config.Policy.Resolve(ctx, inputs)
}

// Builder returns a base fluent builder for this client's dialect and tenancy.
func (c *Client) Builder() Builder {
	return builder.New(builder.Config{
		Dialect:  c.svc.Dialect(),
		Tenancy:  c.config.Tenancy,
		TenantID: c.config.TenantID,
	})
}

// Restrict resolves row-level security for ctx and applies it to b.
func (c *Client) Restrict(b Builder, ctx Context, inputs map[string]any) (Builder, error) {
	res, err := c.Resolve(ctx, inputs)
	if err != nil {
		return b, err
	}
	return b.Restrict(res), nil
}

// CompileFind compiles a SELECT without executing it.
func (c *Client) CompileFind(req Request) (Statement, error) {
	return c.svc.CompileFind(req)
}

// CompileCount compiles a COUNT without executing it.
func (c *Client) CompileCount(req Request) (Statement, error) {
	return c.svc.CompileCount(req)
}

// CompileCreate compiles an INSERT without executing it.
func (c *Client) CompileCreate(req Request, record *Record) (Statement, error) {
	return c.svc.CompileCreate(req, record)
}

// CompileUpdate compiles an UPDATE without executing it.
func (c *Client) CompileUpdate(req Request, id any, record *Record) (Statement, error) {
	return c.svc.CompileUpdate(req, id, record)
}

// CompileDelete compiles a DELETE without executing it.
func (c *Client) CompileDelete(req Request, id any) (Statement, error) {
	return c.svc.CompileDelete(req, id)
}

// Find returns the rows visible to the request.
func (c *Client) Find(ctx context.Context, req Request) ([]Row, error) {
	return c.svc.Find(ctx, req)
}

// Count returns the number of rows visible to the request.
func (c *Client) Count(ctx context.Context, req Request) (int64, error) {
	return c.svc.Count(ctx, req)
}

// Create inserts a record.
func (c *Client) Create(ctx context.Context, req Request, record *Record) (WriteResult, error) {
	return c.svc.Create(ctx, req, record)
}

// Update updates one row by id. It returns a NotFoundError when the row does
// not exist or is not visible to the request.
func (c *Client) Update(ctx context.Context, req Request, id any, record *Record) (int64, error) {
	return c.svc.Update(ctx, req, id, record)
}

// Delete deletes one row by id. It returns a NotFoundError when the row does
// not exist or is not visible to the request.
func (c *Client) Delete(ctx context.Context, req Request, id any) (int64, error) {
	return c.svc.Delete(ctx, req, id)
}
