package policy

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// snapshot is an immutable view of the installed policy.
type snapshot struct {
	restrictions RoleRestrictions
	ranking      Ranking
}

// Manager holds the installed role restrictions. Readers load a snapshot
// without locking; writers validate, copy and swap the whole snapshot, so a
// resolution in flight keeps the view it started with.
type Manager struct {
	current atomic.Pointer[snapshot]
}

// NewManager creates a manager with no restrictions installed.
func NewManager() *Manager {
	m := &Manager{}
	m.current.Store(&snapshot{restrictions: RoleRestrictions{}})
	return m
}

func (m *Manager) load() *snapshot {
	return m.current.Load()
}

// SetRoleRestrictions validates and installs restrictions, keeping the
// current ranking.
func (m *Manager) SetRoleRestrictions(r RoleRestrictions) error {
	if err := Validate(r); err != nil {
		return err
	}
	for {
		old := m.load()
		next := &snapshot{restrictions: copyRestrictions(r), ranking: old.ranking}
		if m.current.CompareAndSwap(old, next) {
			return nil
		}
	}
}

// SetRanking installs a new role ranking, keeping the current restrictions.
func (m *Manager) SetRanking(rk Ranking) {
	for {
		old := m.load()
		next := &snapshot{restrictions: old.restrictions, ranking: copyRanking(rk)}
		if m.current.CompareAndSwap(old, next) {
			return
		}
	}
}

// Install validates and swaps restrictions and ranking together.
func (m *Manager) Install(r RoleRestrictions, rk Ranking) error {
	if err := Validate(r); err != nil {
		return err
	}
	m.current.Store(&snapshot{restrictions: copyRestrictions(r), ranking: copyRanking(rk)})
	return nil
}

// RoleRestrictions returns a copy of the installed restrictions.
func (m *Manager) RoleRestrictions() RoleRestrictions {
	return copyRestrictions(m.load().restrictions)
}

// Ranking returns a copy of the installed ranking.
func (m *Manager) Ranking() Ranking {
	return copyRanking(m.load().ranking)
}

// Roles returns the configured role labels, sorted.
func (m *Manager) Roles() []string {
	s := m.load()
	out := make([]string, 0, len(s.restrictions))
	for role := range s.restrictions {
		out = append(out, role)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether no restrictions are installed.
func (m *Manager) Empty() bool {
	return len(m.load().restrictions) == 0
}

// Resolve resolves the installed restrictions for ctx.
func (m *Manager) Resolve(ctx Context, inputs map[string]any) (Resolution, error) {
	s := m.load()
	return Resolve(s.restrictions, s.ranking, ctx, inputs)
}

// ExposedConditions returns the exposed conditions of the role selected for ctx.
func (m *Manager) ExposedConditions(ctx Context) ([]Condition, error) {
	s := m.load()
	return ExposedConditions(s.restrictions, s.ranking, ctx)
}

// Validate checks role labels, combinators, field names and operators.
func Validate(r RoleRestrictions) error {
	for role, groups := range r {
		if role == "" {
			return fmt.Errorf("%w: empty role label", domain.ErrInvalidInput)
		}
		for gi, g := range groups {
			if _, err := domain.ParseCombinator(string(g.Combinator)); err != nil {
				return fmt.Errorf("role %q group %d: %w", role, gi, err)
			}
			for _, c := range g.Conditions {
				if err := dialect.ValidateColumn(c.Field); err != nil {
					return fmt.Errorf("role %q group %d: %w", role, gi, err)
				}
				if !c.Operator.Valid() {
					return &domain.UnsupportedOperatorError{Operator: string(c.Operator), Field: c.Field}
				}
			}
		}
	}
	return nil
}

func copyRestrictions(r RoleRestrictions) RoleRestrictions {
	out := make(RoleRestrictions, len(r))
	for role, groups := range r {
		gs := make([]RestrictionGroup, len(groups))
		for i, g := range groups {
			conds := make([]Condition, len(g.Conditions))
			for j, c := range g.Conditions {
				conds[j] = copyCondition(c)
			}
			gs[i] = RestrictionGroup{Conditions: conds, Combinator: g.Combinator}
		}
		out[role] = gs
	}
	return out
}

func copyCondition(c Condition) Condition {
	c.Value = copyValue(c.Value)
	if c.Metadata != nil {
		md := make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			md[k] = copyValue(v)
		}
		c.Metadata = md
	}
	return c
}

func copyValue(v any) any {
	switch val := v.(type) {
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = copyValue(val[i])
		}
		return out
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, x := range val {
			out[k] = copyValue(x)
		}
		return out
	}
	return v
}

func copyRanking(rk Ranking) Ranking {
	order := make([]string, len(rk.Order))
	copy(order, rk.Order)
	return Ranking{Order: order, Strict: rk.Strict}
}
