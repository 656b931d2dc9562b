package policy

import (
	"fmt"
	"strconv"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/debug"
)

// SelectRole picks the single role whose restrictions apply. It returns ""
// when none of roles has restrictions.
//
// Among several matching roles the first one listed in ranking.Order wins.
// If none is ranked and every candidate is numeric, the highest number wins.
// Anything else is ambiguous: the first candidate in caller order is used
// and a warning is logged, or ErrAmbiguousRole is returned in strict mode.
func SelectRole(restrictions RoleRestrictions, ranking Ranking, roles []string) (string, error) {
	candidates := matchingRoles(restrictions, roles)
	switch len(candidates) {
	case 0:
		return "", nil
	case 1:
		return candidates[0], nil
	}

	for _, ranked := range ranking.Order {
		for _, c := range candidates {
			if c == ranked {
				return c, nil
			}
		}
	}

	if role, ok := highestNumeric(candidates); ok {
		return role, nil
	}

	if ranking.Strict {
		return "", fmt.Errorf("%w: roles %v", domain.ErrAmbiguousRole, candidates)
	}
	debug.Warn("ambiguous role selection, using caller order",
		"candidates", candidates,
		"selected", candidates[0],
	)
	return candidates[0], nil
}

// matchingRoles returns the roles that have restrictions, in caller order,
// without duplicates.
func matchingRoles(restrictions RoleRestrictions, roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	var out []string
	for _, r := range roles {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		if _, ok := restrictions[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// highestNumeric returns the candidate with the largest label when
// every candidate is a base-10 integer.
func highestNumeric(candidates []string) (string, bool) {
	best := ""
	var bestVal int64
	for i, c := range candidates {
		v, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return "", false
		}
		if i == 0 || v > bestVal {
			best, bestVal = c, v
		}
	}
	return best, true
}

// Resolve computes the row-level security filters for ctx.
func Resolve(restrictions RoleRestrictions, ranking Ranking, ctx Context, inputs map[string]any) (Resolution, error) {
	role, err := SelectRole(restrictions, ranking, ctx.Roles())
	if err != nil {
		return Resolution{}, err
	}
	if role == "" {
		return Resolution{}, nil
	}

	res := Resolution{Role: role, Matched: true, Combinator: domain.AND}
	groups := restrictions[role]
	if len(groups) == 0 {
		return res, nil
	}
	group := groups[0]

	comb, err := domain.ParseCombinator(string(group.Combinator))
	if err != nil {
		return Resolution{}, fmt.Errorf("role %q: %w", role, err)
	}
	res.Combinator = comb

	res.Filters = make([]domain.Filter, 0, len(group.Conditions))
	for _, cond := range group.Conditions {
		op := cond.Operator.Normalize()
		if !op.Valid() {
			return Resolution{}, &domain.UnsupportedOperatorError{Operator: string(cond.Operator), Field: cond.Field}
		}
		if cond.Exposed {
			if v, ok := inputs[cond.Field]; ok {
				res.Filters = append(res.Filters, domain.Filter{Field: cond.Field, Operator: domain.Eq, Value: v})
				continue
			}
		}
		v := ResolveValue(cond.Value, ctx.User)
		if v == nil && IsToken(cond.Value) {
			res.Filters = append(res.Filters, matchNone(cond.Field))
			continue
		}
		res.Filters = append(res.Filters, domain.Filter{
			Field:    cond.Field,
			Operator: op,
			Value:    v,
		})
	}
	return res, nil
}

// matchNone is a predicate on field that no row satisfies. It stands in for
// a condition whose context token could not be resolved, whatever its
// operator.
func matchNone(field string) domain.Filter {
	return domain.Filter{Field: field, Operator: domain.In, Value: []any{}}
}

// ExposedConditions returns the exposed conditions of the role that Resolve
// would select for ctx.
func ExposedConditions(restrictions RoleRestrictions, ranking Ranking, ctx Context) ([]Condition, error) {
	role, err := SelectRole(restrictions, ranking, ctx.Roles())
	if err != nil || role == "" {
		return nil, err
	}
	groups := restrictions[role]
	if len(groups) == 0 {
		return nil, nil
	}
	var out []Condition
	for _, c := range groups[0].Conditions {
		if c.Exposed {
			out = append(out, copyCondition(c))
		}
	}
	return out, nil
}
