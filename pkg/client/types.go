package client

import (
	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/core/query/builder"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/core/schema"
	"github.com/satishbabariya/sqlguard/internal/core/tenancy"
	"github.com/satishbabariya/sqlguard/internal/service"
)

// Query types.
type (
	Dialect      = domain.Dialect
	Operator     = domain.Operator
	Combinator   = domain.Combinator
	Direction    = domain.Direction
	Filter       = domain.Filter
	Group        = domain.Group
	Condition    = domain.Condition
	OrderBy      = domain.OrderBy
	QueryOptions = domain.QueryOptions
	Record       = domain.Record
	Statement    = domain.Statement
	Builder      = builder.Builder
)

// Dialects.
const (
	PostgreSQL = domain.PostgreSQL
	MySQL      = domain.MySQL
	SQLite     = domain.SQLite
)

// Operators.
const (
	Eq         = domain.Eq
	Neq        = domain.Neq
	Gt         = domain.Gt
	Lt         = domain.Lt
	Gte        = domain.Gte
	Lte        = domain.Lte
	Like       = domain.Like
	In         = domain.In
	Nin        = domain.Nin
	Contains   = domain.Contains
	StartsWith = domain.StartsWith
	EndsWith   = domain.EndsWith
)

// Combinators and directions.
const (
	AND  = domain.AND
	OR   = domain.OR
	Asc  = domain.Asc
	Desc = domain.Desc
)

// Policy and tenancy types.
type (
	Context          = policy.Context
	User             = policy.User
	PolicyCondition  = policy.Condition
	RestrictionGroup = policy.RestrictionGroup
	RoleRestrictions = policy.RoleRestrictions
	Ranking          = policy.Ranking
	Resolution       = policy.Resolution
	TenancyConfig    = tenancy.Config
	TenancyStrategy  = tenancy.Strategy
	TableDefinition  = schema.TableDefinition
	ColumnDefinition = schema.ColumnDefinition
)

// Tenancy strategies.
const (
	TenancyNone        = tenancy.StrategyNone
	TenancySchema      = tenancy.StrategySchema
	TenancyTablePrefix = tenancy.StrategyTablePrefix
	TenancyColumn      = tenancy.StrategyColumn
)

// Execution types.
type (
	Engine      = database.Engine
	Row         = database.Row
	ExecResult  = database.ExecResult
	Request     = service.Request
	WriteResult = service.WriteResult
	Hooks       = service.Hooks
	HookContext = service.HookContext
)

// Hook points and the wildcard table.
const (
	BeforeExecute = service.BeforeExecute
	AfterExecute  = service.AfterExecute
	AllTables     = service.AllTables
)

// NewHooks creates an empty hook registry.
func NewHooks() *Hooks {
	return service.NewHooks()
}

// NewRecord creates an empty insertion-ordered record.
func NewRecord() *Record {
	return domain.NewRecord()
}

// RecordOf builds a record from alternating key, value pairs.
func RecordOf(kv ...any) *Record {
	return domain.RecordOf(kv...)
}

// Conditions converts filters into conditions, preserving order.
func Conditions(filters ...Filter) []Condition {
	return domain.Conditions(filters...)
}

// Uint returns a pointer to n for QueryOptions.Limit and Offset.
func Uint(n uint) *uint {
	return domain.Uint(n)
}
