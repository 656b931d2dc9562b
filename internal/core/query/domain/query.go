// Package domain contains the core types shared by the query compiler, the
// policy resolver and the tenancy resolver.
package domain

import (
	"fmt"
	"strings"
)

// Dialect represents a target SQL dialect.
type Dialect string

const (
	// PostgreSQL dialect.
	PostgreSQL Dialect = "postgres"
	// MySQL dialect.
	MySQL Dialect = "mysql"
	// SQLite dialect.
	SQLite Dialect = "sqlite"
)

// Valid reports whether d is one of the supported dialects.
func (d Dialect) Valid() bool {
	switch d {
	case PostgreSQL, MySQL, SQLite:
		return true
	}
	return false
}

// Operator is a filter comparison operator. The zero value means Eq.
type Operator string

const (
	// Eq checks equality.
	Eq Operator = "eq"
	// Neq checks inequality.
	Neq Operator = "neq"
	// Gt checks if value is greater than.
	Gt Operator = "gt"
	// Lt checks if value is less than.
	Lt Operator = "lt"
	// Gte checks if value is greater than or equal.
	Gte Operator = "gte"
	// Lte checks if value is less than or equal.
	Lte Operator = "lte"
	// Like passes the value to LIKE unchanged.
	Like Operator = "like"
	// In checks if value is in list.
	In Operator = "in"
	// Nin checks if value is not in list.
	Nin Operator = "nin"
	// Contains checks if string contains substring.
	Contains Operator = "contains"
	// StartsWith checks if string starts with.
	StartsWith Operator = "startswith"
	// EndsWith checks if string ends with.
	EndsWith Operator = "endswith"
)

var operators = []Operator{Eq, Neq, Gt, Lt, Gte, Lte, Like, In, Nin, Contains, StartsWith, EndsWith}

// Operators returns every supported operator in declaration order.
func Operators() []Operator {
	out := make([]Operator, len(operators))
	copy(out, operators)
	return out
}

// Normalize maps the zero value to Eq.
func (o Operator) Normalize() Operator {
	if o == "" {
		return Eq
	}
	return o
}

// Valid reports whether o (after normalization) is a known operator.
func (o Operator) Valid() bool {
	n := o.Normalize()
	for _, op := range operators {
		if op == n {
			return true
		}
	}
	return false
}

// IsList reports whether the operator takes a list of values.
func (o Operator) IsList() bool {
	return o == In || o == Nin
}

// ParseOperator parses an operator name case-insensitively. An empty string
// yields Eq.
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.ToLower(strings.TrimSpace(s))).Normalize()
	if !op.Valid() {
		return "", &UnsupportedOperatorError{Operator: s}
	}
	return op, nil
}

// Condition is a single WHERE predicate: either a Filter or a Group.
type Condition interface {
	condition()
}

// Filter is a single field comparison.
type Filter struct {
	Field    string
	Operator Operator
	Value    any
}

func (Filter) condition() {}

// String renders the filter for logs. It is never used to build SQL.
func (f Filter) String() string {
	return fmt.Sprintf("%s %s %v", f.Field, f.Operator.Normalize(), f.Value)
}

// Combinator joins the filters of a Group.
type Combinator string

const (
	// AND combines conditions with AND.
	AND Combinator = "AND"
	// OR combines conditions with OR.
	OR Combinator = "OR"
)

// ParseCombinator parses AND/OR case-insensitively; empty yields AND.
func ParseCombinator(s string) (Combinator, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AND":
		return AND, nil
	case "OR":
		return OR, nil
	}
	return "", fmt.Errorf("%w: unknown combinator %q", ErrInvalidInput, s)
}

// Group is a parenthesized set of filters joined by one combinator.
type Group struct {
	Combinator Combinator
	Filters    []Filter
}

func (Group) condition() {}

// Conditions converts filters into conditions, preserving order.
func Conditions(filters ...Filter) []Condition {
	out := make([]Condition, len(filters))
	for i, f := range filters {
		out[i] = f
	}
	return out
}

// Direction is an ORDER BY direction.
type Direction string

const (
	// Asc sorts ascending.
	Asc Direction = "ASC"
	// Desc sorts descending.
	Desc Direction = "DESC"
)

// OrderBy defines sorting.
type OrderBy struct {
	Field     string
	Direction Direction
}

// QueryOptions controls column selection, ordering and pagination.
type QueryOptions struct {
	Columns []string
	OrderBy []OrderBy
	Limit   *uint
	Offset  *uint
}

// Uint returns a pointer to n, for QueryOptions.Limit and Offset.
func Uint(n uint) *uint {
	return &n
}

// StatementKind identifies the statement type.
type StatementKind string

const (
	// KindSelect is a SELECT statement.
	KindSelect StatementKind = "select"
	// KindCount is a SELECT COUNT(*) statement.
	KindCount StatementKind = "count"
	// KindInsert is an INSERT statement.
	KindInsert StatementKind = "insert"
	// KindUpdate is an UPDATE statement.
	KindUpdate StatementKind = "update"
	// KindDelete is a DELETE statement.
	KindDelete StatementKind = "delete"
)

// Statement is a compiled, parameterized SQL statement.
type Statement struct {
	Query   string
	Args    []any
	Dialect Dialect
	Kind    StatementKind
	// IDColumn is set for update and delete statements.
	IDColumn string
	// Returning reports whether the statement yields rows (INSERT ... RETURNING *).
	Returning bool
}

// IsWrite reports whether the statement mutates rows.
func (s Statement) IsWrite() bool {
	switch s.Kind {
	case KindInsert, KindUpdate, KindDelete:
		return true
	}
	return false
}
