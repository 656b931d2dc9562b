// Package policy resolves role-based row-level security restrictions into
// additional filter predicates.
package policy

import (
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// DefaultRoles is used when the context carries no user or no roles.
var DefaultRoles = []string{"public"}

// Condition is a single row-level security predicate.
type Condition struct {
	Field    string
	Operator domain.Operator
	// Value is a literal or a context token such as currentUser.id.
	Value any
	// Exposed conditions may be overridden by caller input.
	Exposed  bool
	Metadata map[string]any
}

// RestrictionGroup is a flat set of conditions joined by one combinator.
type RestrictionGroup struct {
	Conditions []Condition
	Combinator domain.Combinator
}

// RoleRestrictions maps a role label to its restriction groups. Only the
// first group of the selected role is applied.
type RoleRestrictions map[string][]RestrictionGroup

// Ranking orders role labels when several of a user's roles match.
type Ranking struct {
	// Order lists role labels highest priority first.
	Order []string
	// Strict rejects ambiguous selections instead of falling back to caller order.
	Strict bool
}

// User is the authenticated caller.
type User struct {
	ID         any
	Roles      []string
	Department any
	Attributes map[string]any
}

// Context is the per-request security context.
type Context struct {
	User *User
}

// Roles returns the user's roles, or DefaultRoles when there are none.
func (c Context) Roles() []string {
	if c.User == nil || len(c.User.Roles) == 0 {
		return DefaultRoles
	}
	return c.User.Roles
}

// Resolution is the outcome of resolving restrictions for one request.
type Resolution struct {
	Filters    []domain.Filter
	Combinator domain.Combinator
	// Role is the selected role, empty when nothing matched.
	Role    string
	Matched bool
}

// Conditions returns the predicates to append to the base filters. AND
// groups contribute each filter separately; OR groups contribute a single
// parenthesized group.
func (r Resolution) Conditions() []domain.Condition {
	if !r.Matched || len(r.Filters) == 0 {
		return nil
	}
	if r.Combinator == domain.OR && len(r.Filters) > 1 {
		filters := make([]domain.Filter, len(r.Filters))
		copy(filters, r.Filters)
		return []domain.Condition{domain.Group{Combinator: domain.OR, Filters: filters}}
	}
	return domain.Conditions(r.Filters...)
}
