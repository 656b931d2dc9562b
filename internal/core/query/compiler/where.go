// Package compiler turns filters and options into parameterized SQL.
package compiler

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// Clause is a compiled WHERE clause. SQL is empty when there are no
// conditions; otherwise it starts with "WHERE ".
type Clause struct {
	SQL  string
	Args []any
}

// Empty reports whether the clause has no predicate.
func (c Clause) Empty() bool {
	return c.SQL == ""
}

var comparison = map[domain.Operator]string{
	domain.Eq:   "=",
	domain.Neq:  "!=",
	domain.Gt:   ">",
	domain.Lt:   "<",
	domain.Gte:  ">=",
	domain.Lte:  "<=",
	domain.Like: "LIKE",
}

// Compile compiles filters joined by AND.
func Compile(filters []domain.Filter, d domain.Dialect) (Clause, error) {
	return NewWhere(d).Add(domain.Conditions(filters...)...).Build()
}

// Where accumulates conditions for one WHERE clause. Conditions are joined
// with AND in the order they were added; a Group renders as a single
// parenthesized predicate.
type Where struct {
	dialect    domain.Dialect
	conditions []domain.Condition
}

// NewWhere creates an empty accumulator for the dialect.
func NewWhere(d domain.Dialect) *Where {
	return &Where{dialect: d}
}

// Add appends conditions.
func (w *Where) Add(conditions ...domain.Condition) *Where {
	w.conditions = append(w.conditions, conditions...)
	return w
}

// Group appends filters joined by combinator as one parenthesized predicate.
func (w *Where) Group(combinator domain.Combinator, filters ...domain.Filter) *Where {
	return w.Add(domain.Group{Combinator: combinator, Filters: filters})
}

// Len returns the number of accumulated conditions.
func (w *Where) Len() int {
	return len(w.conditions)
}

// Build compiles the clause with placeholders numbered from the first parameter.
func (w *Where) Build() (Clause, error) {
	return w.BuildAt(0)
}

// BuildAt compiles the clause assuming offset parameters precede it.
func (w *Where) BuildAt(offset int) (Clause, error) {
	argIndex := offset
	pred, args, err := w.predicate(&argIndex)
	if err != nil {
		return Clause{}, err
	}
	if pred == "" {
		return Clause{}, nil
	}
	return Clause{SQL: "WHERE " + pred, Args: args}, nil
}

// predicate renders the conditions without the WHERE keyword, advancing argIndex.
func (w *Where) predicate(argIndex *int) (string, []any, error) {
	if len(w.conditions) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(w.conditions))
	var args []any
	for _, cond := range w.conditions {
		var (
			sql     string
			condArg []any
			err     error
		)
		switch c := cond.(type) {
		case domain.Filter:
			sql, condArg, err = w.buildFilter(c, argIndex)
		case domain.Group:
			sql, condArg, err = w.buildGroup(c, argIndex)
		case nil:
			continue
		default:
			err = fmt.Errorf("%w: unsupported condition %T", domain.ErrInvalidInput, cond)
		}
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, condArg...)
	}
	return strings.Join(parts, " AND "), args, nil
}

func (w *Where) buildGroup(g domain.Group, argIndex *int) (string, []any, error) {
	comb, err := domain.ParseCombinator(string(g.Combinator))
	if err != nil {
		return "", nil, err
	}
	if len(g.Filters) == 0 {
		// An empty disjunction matches nothing, an empty conjunction everything.
		if comb == domain.OR {
			return "1=0", nil, nil
		}
		return "1=1", nil, nil
	}
	parts := make([]string, 0, len(g.Filters))
	var args []any
	for _, f := range g.Filters {
		sql, fargs, err := w.buildFilter(f, argIndex)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, fargs...)
	}
	return "(" + strings.Join(parts, " "+string(comb)+" ") + ")", args, nil
}

func (w *Where) buildFilter(f domain.Filter, argIndex *int) (string, []any, error) {
	col, err := dialect.QuoteColumn(f.Field, w.dialect)
	if err != nil {
		return "", nil, err
	}

	op := f.Operator.Normalize()
	switch op {
	case domain.Contains:
		return col + " LIKE " + w.placeholder(argIndex), []any{fmt.Sprintf("%%%v%%", f.Value)}, nil
	case domain.StartsWith:
		return col + " LIKE " + w.placeholder(argIndex), []any{fmt.Sprintf("%v%%", f.Value)}, nil
	case domain.EndsWith:
		return col + " LIKE " + w.placeholder(argIndex), []any{fmt.Sprintf("%%%v", f.Value)}, nil
	case domain.In, domain.Nin:
		values := listValues(f.Value)
		if len(values) == 0 {
			if op == domain.In {
				return "1=0", nil, nil
			}
			return "1=1", nil, nil
		}
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = w.placeholder(argIndex)
		}
		keyword := " IN ("
		if op == domain.Nin {
			keyword = " NOT IN ("
		}
		return col + keyword + strings.Join(placeholders, ", ") + ")", values, nil
	}

	sqlOp, ok := comparison[op]
	if !ok {
		return "", nil, &domain.UnsupportedOperatorError{Operator: string(f.Operator), Field: f.Field}
	}
	return col + " " + sqlOp + " " + w.placeholder(argIndex), []any{f.Value}, nil
}

// placeholder returns the bind marker for the current index and advances it.
func (w *Where) placeholder(argIndex *int) string {
	defer func() { *argIndex++ }()
	return dialect.Placeholder(*argIndex, w.dialect)
}

// listValues flattens any slice or array into its elements. A nil value is
// an empty list; any other scalar (including []byte) is a one-element list.
func listValues(v any) []any {
	if v == nil {
		return nil
	}
	if vs, ok := v.([]any); ok {
		out := make([]any, len(vs))
		copy(out, vs)
		return out
	}
	if _, ok := v.([]byte); ok {
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{v}
}
