package builder

import "github.com/satishbabariya/sqlguard/internal/core/query/domain"

// Filter helpers for building conditions with a fluent API.

// Eq creates an equality filter.
func Eq(field string, value any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Eq, Value: value}
}

// Neq creates an inequality filter.
func Neq(field string, value any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Neq, Value: value}
}

// Gt creates a greater than filter.
func Gt(field string, value any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Gt, Value: value}
}

// Gte creates a greater than or equal filter.
func Gte(field string, value any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Gte, Value: value}
}

// Lt creates a less than filter.
func Lt(field string, value any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Lt, Value: value}
}

// Lte creates a less than or equal filter.
func Lte(field string, value any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Lte, Value: value}
}

// Like creates a LIKE filter with a caller-supplied pattern.
func Like(field string, pattern string) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Like, Value: pattern}
}

// In creates an IN filter. values may be any slice.
func In(field string, values any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.In, Value: values}
}

// NotIn creates a NOT IN filter.
func NotIn(field string, values any) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Nin, Value: values}
}

// Contains creates a substring filter.
func Contains(field string, value string) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.Contains, Value: value}
}

// StartsWith creates a prefix filter.
func StartsWith(field string, value string) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.StartsWith, Value: value}
}

// EndsWith creates a suffix filter.
func EndsWith(field string, value string) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.EndsWith, Value: value}
}

// Or groups filters with OR.
func Or(filters ...domain.Filter) domain.Group {
	return domain.Group{Combinator: domain.OR, Filters: filters}
}

// And groups filters with AND.
func And(filters ...domain.Filter) domain.Group {
	return domain.Group{Combinator: domain.AND, Filters: filters}
}
