package policy

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// Document is the on-disk policy format:
//
//	ranking: [admin, manager]
//	strict: false
//	roles:
//	  manager:
//	    - combinator: OR
//	      conditions:
//	        - field: department
//	          value: currentUser.department
//	        - field: priority
//	          value: high
//	          exposed: true
type Document struct {
	Order  []string               `yaml:"ranking"`
	Strict bool                   `yaml:"strict"`
	Roles  map[string][]GroupSpec `yaml:"roles"`
}

// GroupSpec is a restriction group in a policy document.
type GroupSpec struct {
	Combinator string          `yaml:"combinator"`
	Conditions []ConditionSpec `yaml:"conditions"`
}

// ConditionSpec is a condition in a policy document.
type ConditionSpec struct {
	Field    string         `yaml:"field"`
	Operator string         `yaml:"operator"`
	Value    any            `yaml:"value"`
	Exposed  bool           `yaml:"exposed"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// LoadDocument decodes a YAML policy document. Unknown keys are rejected.
func LoadDocument(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("%w: parse policy: %v", domain.ErrInvalidInput, err)
	}
	return &doc, nil
}

// Ranking returns the document's role ranking.
func (d *Document) Ranking() Ranking {
	return Ranking{Order: d.Order, Strict: d.Strict}
}

// Restrictions converts the document into validated role restrictions.
func (d *Document) Restrictions() (RoleRestrictions, error) {
	out := make(RoleRestrictions, len(d.Roles))
	for role, groups := range d.Roles {
		gs := make([]RestrictionGroup, 0, len(groups))
		for gi, g := range groups {
			comb, err := domain.ParseCombinator(g.Combinator)
			if err != nil {
				return nil, fmt.Errorf("role %q group %d: %w", role, gi, err)
			}
			conds := make([]Condition, 0, len(g.Conditions))
			for _, c := range g.Conditions {
				op, err := domain.ParseOperator(c.Operator)
				if err != nil {
					return nil, fmt.Errorf("role %q field %q: %w", role, c.Field, err)
				}
				conds = append(conds, Condition{
					Field:    c.Field,
					Operator: op,
					Value:    c.Value,
					Exposed:  c.Exposed,
					Metadata: c.Metadata,
				})
			}
			gs = append(gs, RestrictionGroup{Conditions: conds, Combinator: comb})
		}
		out[role] = gs
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Load reads a policy document and installs it.
func (m *Manager) Load(r io.Reader) error {
	doc, err := LoadDocument(r)
	if err != nil {
		return err
	}
	restrictions, err := doc.Restrictions()
	if err != nil {
		return err
	}
	return m.Install(restrictions, doc.Ranking())
}

// LoadFile reads and installs the policy document at path.
func (m *Manager) LoadFile(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()
	if err := m.Load(f); err != nil {
		return fmt.Errorf("load policy file %s: %w", path, err)
	}
	return nil
}
