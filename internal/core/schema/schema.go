// Package schema describes table metadata supplied by the entity layer.
package schema

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// ColumnType is a logical column type.
type ColumnType string

const (
	TypeString   ColumnType = "string"
	TypeText     ColumnType = "text"
	TypeInteger  ColumnType = "integer"
	TypeBoolean  ColumnType = "boolean"
	TypeDate     ColumnType = "date"
	TypeDateTime ColumnType = "datetime"
	TypeJSON     ColumnType = "json"
	TypeUUID     ColumnType = "uuid"
)

// Valid reports whether t is a known column type.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeString, TypeText, TypeInteger, TypeBoolean, TypeDate, TypeDateTime, TypeJSON, TypeUUID:
		return true
	}
	return false
}

// ReferentialAction is a foreign key ON DELETE / ON UPDATE action.
type ReferentialAction string

const (
	NoAction   ReferentialAction = "NO ACTION"
	Restrict   ReferentialAction = "RESTRICT"
	Cascade    ReferentialAction = "CASCADE"
	SetNull    ReferentialAction = "SET NULL"
	SetDefault ReferentialAction = "SET DEFAULT"
)

// ParseReferentialAction parses an action case-insensitively; empty is NO ACTION.
func ParseReferentialAction(s string) (ReferentialAction, error) {
	a := ReferentialAction(strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " ")))
	switch a {
	case "":
		return NoAction, nil
	case NoAction, Restrict, Cascade, SetNull, SetDefault:
		return a, nil
	}
	return "", fmt.Errorf("%w: unknown referential action %q", domain.ErrInvalidInput, s)
}

// ForeignKey references a column of another table.
type ForeignKey struct {
	Table    string
	Column   string
	OnDelete ReferentialAction
	OnUpdate ReferentialAction
}

// ColumnDefinition describes a single column.
type ColumnDefinition struct {
	Name       string
	Type       ColumnType
	Nullable   bool
	Unique     bool
	Default    any
	References *ForeignKey
}

// Validate checks the column name, type, default and reference.
func (c ColumnDefinition) Validate() error {
	if err := dialect.ValidateColumn(c.Name); err != nil {
		return err
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: column %s has unknown type %q", domain.ErrInvalidInput, c.Name, c.Type)
	}
	if c.Type == TypeUUID && c.Default != nil {
		if s, ok := c.Default.(string); ok && s != "" {
			if _, err := uuid.Parse(s); err != nil {
				return fmt.Errorf("%w: column %s default is not a uuid: %v", domain.ErrInvalidInput, c.Name, err)
			}
		}
	}
	if fk := c.References; fk != nil {
		if err := dialect.ValidateIdentifier(fk.Table); err != nil {
			return err
		}
		if err := dialect.ValidateColumn(fk.Column); err != nil {
			return err
		}
		for _, a := range []ReferentialAction{fk.OnDelete, fk.OnUpdate} {
			if _, err := ParseReferentialAction(string(a)); err != nil {
				return err
			}
		}
	}
	return nil
}

// TableDefinition describes a table.
type TableDefinition struct {
	Name     string
	IDColumn string
	Columns  []ColumnDefinition
}

// PrimaryKey returns the id column, defaulting to "id".
func (t TableDefinition) PrimaryKey() string {
	if t.IDColumn == "" {
		return "id"
	}
	return t.IDColumn
}

// Column returns the named column definition.
func (t TableDefinition) Column(name string) (ColumnDefinition, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// HasColumn reports whether name is a known column. A table with no column
// definitions accepts every name.
func (t TableDefinition) HasColumn(name string) bool {
	if len(t.Columns) == 0 {
		return true
	}
	_, ok := t.Column(name)
	return ok
}

// Validate checks the table name, id column and every column.
func (t TableDefinition) Validate() error {
	if err := dialect.ValidateIdentifier(t.Name); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: table %s has duplicate column %s", domain.ErrInvalidInput, t.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	if !t.HasColumn(t.PrimaryKey()) {
		return fmt.Errorf("%w: table %s has no id column %s", domain.ErrInvalidInput, t.Name, t.PrimaryKey())
	}
	return nil
}

// CheckFields returns ErrUnknownField for the first name not in the table.
func (t TableDefinition) CheckFields(names ...string) error {
	for _, n := range names {
		if !t.HasColumn(n) {
			return fmt.Errorf("%w: %s.%s", domain.ErrUnknownField, t.Name, n)
		}
	}
	return nil
}

// Registry is a read-only lookup of table definitions by name.
type Registry struct {
	tables map[string]TableDefinition
}

// NewRegistry validates and indexes table definitions.
func NewRegistry(tables ...TableDefinition) (*Registry, error) {
	r := &Registry{tables: make(map[string]TableDefinition, len(tables))}
	for _, t := range tables {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		r.tables[t.Name] = t
	}
	return r, nil
}

// Table returns the definition for name.
func (r *Registry) Table(name string) (TableDefinition, bool) {
	if r == nil {
		return TableDefinition{}, false
	}
	t, ok := r.tables[name]
	return t, ok
}
