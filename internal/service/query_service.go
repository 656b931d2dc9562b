// Package service implements the query service.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/core/query/compiler"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/core/schema"
	"github.com/satishbabariya/sqlguard/internal/core/tenancy"
	"github.com/satishbabariya/sqlguard/internal/debug"
)

// Request is one entity-layer operation.
type Request struct {
	Table    string
	IDColumn string
	Filters  []domain.Filter
	Options  domain.QueryOptions
	TenantID string
	Context  policy.Context
	// Inputs are caller values for exposed policy conditions.
	Inputs map[string]any
}

// WriteResult is the normalized outcome of a create.
type WriteResult struct {
	Changes      int64
	LastInsertID any
	// Row is the inserted row when the dialect supports RETURNING.
	Row database.Row
}

// QueryService orchestrates tenancy, row-level security, compilation and
// execution.
type QueryService struct {
	engine        database.Engine
	assembler     *compiler.Assembler
	tenancy       *tenancy.Resolver
	policy        *policy.Manager
	schema        *schema.Registry
	denyUnmatched bool
	hooks         *Hooks
	logger        *slog.Logger
}

// Option configures a QueryService.
type Option func(*QueryService)

// WithTenancy sets the tenancy configuration.
func WithTenancy(cfg tenancy.Config) Option {
	return func(s *QueryService) {
		s.tenancy = tenancy.NewResolver(cfg)
	}
}

// WithPolicy sets the row-level security policy manager.
func WithPolicy(m *policy.Manager) Option {
	return func(s *QueryService) {
		if m != nil {
			s.policy = m
		}
	}
}

// WithSchema enables field checking and default id columns.
func WithSchema(r *schema.Registry) Option {
	return func(s *QueryService) {
		s.schema = r
	}
}

// WithDenyUnmatched rejects requests whose roles match no restriction while
// restrictions are installed.
func WithDenyUnmatched(deny bool) Option {
	return func(s *QueryService) {
		s.denyUnmatched = deny
	}
}

// WithHooks installs execution hooks.
func WithHooks(h *Hooks) Option {
	return func(s *QueryService) {
		s.hooks = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *QueryService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewQueryService creates a new query service. engine may be nil when only
// the Compile methods are used.
func NewQueryService(engine database.Engine, d domain.Dialect, opts ...Option) *QueryService {
	s := &QueryService{
		engine:    engine,
		assembler: compiler.NewAssembler(d),
		tenancy:   tenancy.NewResolver(tenancy.Config{}),
		policy:    policy.NewManager(),
		logger:    debug.Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the target dialect.
func (s *QueryService) Dialect() domain.Dialect {
	return s.assembler.Dialect()
}

// Policy returns the policy manager.
func (s *QueryService) Policy() *policy.Manager {
	return s.policy
}

// ExposedConditions returns the caller-adjustable conditions for ctx.
func (s *QueryService) ExposedConditions(ctx policy.Context) ([]policy.Condition, error) {
	return s.policy.ExposedConditions(ctx)
}

// scoped is a request after tenancy and policy resolution.
type scoped struct {
	table      string
	idColumn   string
	conditions []domain.Condition
}

// scope resolves the physical table and the full condition list: caller
// filters, then RLS predicates, then the tenant filter.
func (s *QueryService) scope(req Request, needID bool) (scoped, error) {
	if req.Table == "" {
		return scoped{}, fmt.Errorf("%w: table is required", domain.ErrInvalidInput)
	}

	idColumn := req.IDColumn
	if def, ok := s.schema.Table(req.Table); ok {
		if idColumn == "" {
			idColumn = def.PrimaryKey()
		}
		if err := def.CheckFields(fieldNames(req)...); err != nil {
			return scoped{}, err
		}
	}
	if needID && idColumn == "" {
		return scoped{}, fmt.Errorf("%w: id column is required for %s", domain.ErrInvalidInput, req.Table)
	}

	res, err := s.policy.Resolve(req.Context, req.Inputs)
	if err != nil {
		return scoped{}, err
	}
	if !res.Matched && s.denyUnmatched && !s.policy.Empty() {
		return scoped{}, fmt.Errorf("%w: roles %v on %s", domain.ErrPolicyMismatch, req.Context.Roles(), req.Table)
	}

	conds := make([]domain.Condition, 0, len(req.Filters)+len(res.Filters)+1)
	conds = append(conds, domain.Conditions(req.Filters...)...)
	conds = append(conds, res.Conditions()...)
	if f, ok := s.tenancy.TenantFilter(req.TenantID); ok {
		conds = append(conds, f)
	}

	return scoped{
		table:      s.tenancy.ResolveTable(req.Table, req.TenantID),
		idColumn:   idColumn,
		conditions: conds,
	}, nil
}

func fieldNames(req Request) []string {
	names := make([]string, 0, len(req.Filters)+len(req.Options.Columns)+len(req.Options.OrderBy))
	for _, f := range req.Filters {
		names = append(names, f.Field)
	}
	names = append(names, req.Options.Columns...)
	for _, o := range req.Options.OrderBy {
		names = append(names, o.Field)
	}
	return names
}

func (s *QueryService) checkRecord(table string, record *domain.Record) error {
	if def, ok := s.schema.Table(table); ok {
		return def.CheckFields(record.Keys()...)
	}
	return nil
}

func (s *QueryService) compiled(stmt domain.Statement, err error) (domain.Statement, error) {
	if err != nil {
		return domain.Statement{}, err
	}
	s.logger.Debug("compiled statement",
		"kind", stmt.Kind,
		"dialect", stmt.Dialect,
		"sql", stmt.Query,
		"params", len(stmt.Args),
	)
	return stmt, nil
}

// CompileFind compiles a SELECT.
func (s *QueryService) CompileFind(req Request) (domain.Statement, error) {
	sc, err := s.scope(req, false)
	if err != nil {
		return domain.Statement{}, err
	}
	return s.compiled(s.assembler.Select(sc.table, sc.conditions, req.Options))
}

// CompileCount compiles a COUNT.
func (s *QueryService) CompileCount(req Request) (domain.Statement, error) {
	sc, err := s.scope(req, false)
	if err != nil {
		return domain.Statement{}, err
	}
	return s.compiled(s.assembler.Count(sc.table, sc.conditions))
}

// CompileCreate compiles an INSERT with the tenant column merged in.
func (s *QueryService) CompileCreate(req Request, record *domain.Record) (domain.Statement, error) {
	if err := s.checkRecord(req.Table, record); err != nil {
		return domain.Statement{}, err
	}
	sc, err := s.scope(req, false)
	if err != nil {
		return domain.Statement{}, err
	}
	stmt, err := s.assembler.Insert(sc.table, s.tenancy.InjectWriteData(record, req.TenantID))
	if err == nil {
		stmt.IDColumn = sc.idColumn
	}
	return s.compiled(stmt, err)
}

// CompileUpdate compiles an UPDATE of one row scoped by RLS and tenancy.
func (s *QueryService) CompileUpdate(req Request, id any, record *domain.Record) (domain.Statement, error) {
	if err := s.checkRecord(req.Table, record); err != nil {
		return domain.Statement{}, err
	}
	sc, err := s.scope(req, true)
	if err != nil {
		return domain.Statement{}, err
	}
	if record.Len() == 0 {
		return domain.Statement{}, fmt.Errorf("%w: update of %s has no columns", domain.ErrInvalidInput, req.Table)
	}
	return s.compiled(s.assembler.Update(sc.table, sc.idColumn, id,
		s.tenancy.InjectWriteData(record, req.TenantID), sc.conditions...))
}

// CompileDelete compiles a DELETE of one row scoped by RLS and tenancy.
func (s *QueryService) CompileDelete(req Request, id any) (domain.Statement, error) {
	sc, err := s.scope(req, true)
	if err != nil {
		return domain.Statement{}, err
	}
	return s.compiled(s.assembler.Delete(sc.table, sc.idColumn, id, sc.conditions...))
}

func (s *QueryService) requireEngine() error {
	if s.engine == nil {
		return database.ErrNotConnected
	}
	return nil
}

// Find executes a SELECT.
func (s *QueryService) Find(ctx context.Context, req Request) ([]database.Row, error) {
	if err := s.requireEngine(); err != nil {
		return nil, err
	}
	stmt, err := s.CompileFind(req)
	if err != nil {
		return nil, err
	}
	var rows []database.Row
	err = s.observe(ctx, req.Table, stmt, func() (int64, error) {
		var err error
		rows, err = s.engine.Query(ctx, stmt.Query, stmt.Args)
		return int64(len(rows)), err
	})
	return rows, err
}

// Count executes a COUNT.
func (s *QueryService) Count(ctx context.Context, req Request) (int64, error) {
	if err := s.requireEngine(); err != nil {
		return 0, err
	}
	stmt, err := s.CompileCount(req)
	if err != nil {
		return 0, err
	}
	var rows []database.Row
	err = s.observe(ctx, req.Table, stmt, func() (int64, error) {
		var err error
		rows, err = s.engine.Query(ctx, stmt.Query, stmt.Args)
		return int64(len(rows)), err
	})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return toInt64(rows[0]["count"])
}

// Create executes an INSERT.
func (s *QueryService) Create(ctx context.Context, req Request, record *domain.Record) (WriteResult, error) {
	if err := s.requireEngine(); err != nil {
		return WriteResult{}, err
	}
	stmt, err := s.CompileCreate(req, record)
	if err != nil {
		return WriteResult{}, err
	}

	if stmt.Returning {
		var rows []database.Row
		err := s.observe(ctx, req.Table, stmt, func() (int64, error) {
			var err error
			rows, err = s.engine.Query(ctx, stmt.Query, stmt.Args)
			return int64(len(rows)), err
		})
		if err != nil {
			return WriteResult{}, err
		}
		out := WriteResult{Changes: int64(len(rows))}
		if len(rows) > 0 {
			out.Row = rows[0]
			if stmt.IDColumn != "" {
				out.LastInsertID = rows[0][stmt.IDColumn]
			}
		}
		return out, nil
	}

	var res database.ExecResult
	err = s.observe(ctx, req.Table, stmt, func() (int64, error) {
		var err error
		res, err = s.engine.Execute(ctx, stmt.Query, stmt.Args)
		return res.Changes, err
	})
	if err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Changes: res.Changes, LastInsertID: res.LastInsertID}, nil
}

// Update executes an UPDATE. Zero affected rows is a NotFoundError.
func (s *QueryService) Update(ctx context.Context, req Request, id any, record *domain.Record) (int64, error) {
	if err := s.requireEngine(); err != nil {
		return 0, err
	}
	stmt, err := s.CompileUpdate(req, id, record)
	if err != nil {
		return 0, err
	}
	return s.executeByID(ctx, req.Table, stmt, id)
}

// Delete executes a DELETE. Zero affected rows is a NotFoundError.
func (s *QueryService) Delete(ctx context.Context, req Request, id any) (int64, error) {
	if err := s.requireEngine(); err != nil {
		return 0, err
	}
	stmt, err := s.CompileDelete(req, id)
	if err != nil {
		return 0, err
	}
	return s.executeByID(ctx, req.Table, stmt, id)
}

func (s *QueryService) executeByID(ctx context.Context, table string, stmt domain.Statement, id any) (int64, error) {
	var res database.ExecResult
	err := s.observe(ctx, table, stmt, func() (int64, error) {
		var err error
		res, err = s.engine.Execute(ctx, stmt.Query, stmt.Args)
		return res.Changes, err
	})
	if err != nil {
		return 0, err
	}
	if res.Changes == 0 {
		return 0, &domain.NotFoundError{Table: table, IDColumn: stmt.IDColumn, ID: id}
	}
	return res.Changes, nil
}

// observe runs the engine call between the before and after hooks. An
// after-hook error is returned only when the engine call succeeded.
func (s *QueryService) observe(ctx context.Context, table string, stmt domain.Statement, run func() (int64, error)) error {
	hc := &HookContext{Context: ctx, Table: table, Statement: stmt}
	if err := s.hooks.Execute(hc, BeforeExecute); err != nil {
		return err
	}
	hc.Rows, hc.Error = run()
	if err := s.hooks.Execute(hc, AfterExecute); err != nil && hc.Error == nil {
		return err
	}
	return hc.Error
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("unexpected count type %T", v)
}
