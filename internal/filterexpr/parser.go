// Package filterexpr parses textual filter expressions into query conditions.
// Top-level clauses are joined with AND; a parenthesized clause is an OR group.
package filterexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

type expression struct {
	Clauses []*clause `@@ ( ( "and" | "AND" | "&&" ) @@ )*`
}

type clause struct {
	Group  []*comparison `  "(" @@ ( ( "or" | "OR" | "||" ) @@ )* ")"`
	Single *comparison   `| @@`
}

type comparison struct {
	Field    string `@Ident ( @"." @Ident )*`
	Operator string `( @Op | @Ident )`
	Value    *value `@@`
}

type value struct {
	List   []*scalar `  "(" ( @@ ( "," @@ )* )? ")"`
	Scalar *scalar   `| @@`
}

type scalar struct {
	Bool   *boolean `  @( "true" | "false" )`
	Null   bool     `| @"null"`
	String *string  `| @String`
	Number *string  `| @Number`
	Ref    *string  `| @Ident ( @"." @Ident )*`
}

type boolean bool

func (b *boolean) Capture(values []string) error {
	*b = values[0] == "true"
	return nil
}

var parser = participle.MustBuild[expression](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(4),
)

var symbols = map[string]domain.Operator{
	"=":  domain.Eq,
	"==": domain.Eq,
	"!=": domain.Neq,
	"<>": domain.Neq,
	">":  domain.Gt,
	">=": domain.Gte,
	"<":  domain.Lt,
	"<=": domain.Lte,
}

// Parse parses input into conditions. An empty input yields no conditions.
func Parse(input string) ([]domain.Condition, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	expr, err := parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("%w: filter expression: %v", domain.ErrInvalidInput, err)
	}
	out := make([]domain.Condition, 0, len(expr.Clauses))
	for _, c := range expr.Clauses {
		if c.Single != nil {
			f, err := c.Single.filter()
			if err != nil {
				return nil, err
			}
			out = append(out, f)
			continue
		}
		g := domain.Group{Combinator: domain.OR, Filters: make([]domain.Filter, 0, len(c.Group))}
		for _, cmp := range c.Group {
			f, err := cmp.filter()
			if err != nil {
				return nil, err
			}
			g.Filters = append(g.Filters, f)
		}
		if len(g.Filters) == 1 {
			out = append(out, g.Filters[0])
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// ParseFilters parses input and rejects OR groups.
func ParseFilters(input string) ([]domain.Filter, error) {
	conds, err := Parse(input)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Filter, 0, len(conds))
	for _, c := range conds {
		f, ok := c.(domain.Filter)
		if !ok {
			return nil, fmt.Errorf("%w: OR groups are not allowed here", domain.ErrInvalidInput)
		}
		out = append(out, f)
	}
	return out, nil
}

func (c *comparison) filter() (domain.Filter, error) {
	op, ok := symbols[c.Operator]
	if !ok {
		var err error
		op, err = domain.ParseOperator(c.Operator)
		if err != nil {
			return domain.Filter{}, &domain.UnsupportedOperatorError{Operator: c.Operator, Field: c.Field}
		}
	}

	f := domain.Filter{Field: c.Field, Operator: op}
	if c.Value.Scalar != nil {
		v, err := c.Value.Scalar.value()
		if err != nil {
			return domain.Filter{}, err
		}
		f.Value = v
		return f, nil
	}

	list := make([]any, 0, len(c.Value.List))
	for _, s := range c.Value.List {
		v, err := s.value()
		if err != nil {
			return domain.Filter{}, err
		}
		list = append(list, v)
	}
	f.Value = list
	return f, nil
}

func (s *scalar) value() (any, error) {
	switch {
	case s.Bool != nil:
		return bool(*s.Bool), nil
	case s.Null:
		return nil, nil
	case s.String != nil:
		return *s.String, nil
	case s.Number != nil:
		if strings.Contains(*s.Number, ".") {
			return strconv.ParseFloat(*s.Number, 64)
		}
		return strconv.ParseInt(*s.Number, 10, 64)
	case s.Ref != nil:
		return *s.Ref, nil
	}
	return nil, nil
}
