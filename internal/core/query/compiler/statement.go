package compiler

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlguard/internal/core/query/dialect"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// mysqlMaxLimit is the documented way to ask MySQL for "all remaining rows".
const mysqlMaxLimit = "18446744073709551615"

// Assembler builds complete statements for one dialect.
type Assembler struct {
	dialect domain.Dialect
}

// NewAssembler creates a statement assembler.
func NewAssembler(d domain.Dialect) *Assembler {
	return &Assembler{dialect: d}
}

// Dialect returns the target dialect.
func (a *Assembler) Dialect() domain.Dialect {
	return a.dialect
}

// Select builds a SELECT statement. WHERE parameters come first, then limit,
// then offset.
func (a *Assembler) Select(table string, conditions []domain.Condition, opts domain.QueryOptions) (domain.Statement, error) {
	tbl, err := dialect.QuoteIdentifier(table, a.dialect)
	if err != nil {
		return domain.Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(opts.Columns) > 0 {
		for i, c := range opts.Columns {
			col, err := dialect.QuoteColumn(c, a.dialect)
			if err != nil {
				return domain.Statement{}, err
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(col)
		}
	} else {
		sb.WriteString("*")
	}
	sb.WriteString(" FROM ")
	sb.WriteString(tbl)

	argIndex := 0
	where, err := NewWhere(a.dialect).Add(conditions...).BuildAt(argIndex)
	if err != nil {
		return domain.Statement{}, err
	}
	args := where.Args
	argIndex += len(where.Args)
	if !where.Empty() {
		sb.WriteString(" ")
		sb.WriteString(where.SQL)
	}

	if len(opts.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, o := range opts.OrderBy {
			col, err := dialect.QuoteColumn(o.Field, a.dialect)
			if err != nil {
				return domain.Statement{}, err
			}
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(col)
			sb.WriteString(" ")
			sb.WriteString(string(dialect.NormalizeDirection(string(o.Direction))))
		}
	}

	if opts.Limit != nil {
		sb.WriteString(" LIMIT ")
		sb.WriteString(dialect.Placeholder(argIndex, a.dialect))
		args = append(args, *opts.Limit)
		argIndex++
	} else if opts.Offset != nil {
		// MySQL and SQLite reject OFFSET without LIMIT.
		switch a.dialect {
		case domain.MySQL:
			sb.WriteString(" LIMIT " + mysqlMaxLimit)
		case domain.SQLite:
			sb.WriteString(" LIMIT -1")
		}
	}

	if opts.Offset != nil {
		sb.WriteString(" OFFSET ")
		sb.WriteString(dialect.Placeholder(argIndex, a.dialect))
		args = append(args, *opts.Offset)
	}

	return domain.Statement{
		Query:   sb.String(),
		Args:    args,
		Dialect: a.dialect,
		Kind:    domain.KindSelect,
	}, nil
}

// Count builds a SELECT COUNT(*) statement.
func (a *Assembler) Count(table string, conditions []domain.Condition) (domain.Statement, error) {
	tbl, err := dialect.QuoteIdentifier(table, a.dialect)
	if err != nil {
		return domain.Statement{}, err
	}
	where, err := NewWhere(a.dialect).Add(conditions...).Build()
	if err != nil {
		return domain.Statement{}, err
	}
	query := "SELECT COUNT(*) as count FROM " + tbl
	if !where.Empty() {
		query += " " + where.SQL
	}
	return domain.Statement{
		Query:   query,
		Args:    where.Args,
		Dialect: a.dialect,
		Kind:    domain.KindCount,
	}, nil
}

// Insert builds an INSERT statement with columns in record order.
func (a *Assembler) Insert(table string, record *domain.Record) (domain.Statement, error) {
	tbl, err := dialect.QuoteIdentifier(table, a.dialect)
	if err != nil {
		return domain.Statement{}, err
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(tbl)

	keys := record.Keys()
	args := make([]any, 0, len(keys))
	if len(keys) == 0 {
		if a.dialect == domain.MySQL {
			sb.WriteString(" () VALUES ()")
		} else {
			sb.WriteString(" DEFAULT VALUES")
		}
	} else {
		cols := make([]string, len(keys))
		placeholders := make([]string, len(keys))
		for i, k := range keys {
			col, err := dialect.QuoteColumn(k, a.dialect)
			if err != nil {
				return domain.Statement{}, err
			}
			cols[i] = col
			placeholders[i] = dialect.Placeholder(i, a.dialect)
			v, _ := record.Get(k)
			args = append(args, v)
		}
		fmt.Fprintf(&sb, " (%s) VALUES (%s)", strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	}

	returning := dialect.SupportsReturning(a.dialect)
	if returning {
		sb.WriteString(" RETURNING *")
	}

	return domain.Statement{
		Query:     sb.String(),
		Args:      args,
		Dialect:   a.dialect,
		Kind:      domain.KindInsert,
		Returning: returning,
	}, nil
}

// Update builds UPDATE ... SET ... WHERE idColumn = p, followed by any
// scoping conditions. Parameters are SET values, the id, then conditions.
func (a *Assembler) Update(table, idColumn string, id any, record *domain.Record, conditions ...domain.Condition) (domain.Statement, error) {
	if record.Len() == 0 {
		return domain.Statement{}, fmt.Errorf("%w: update of %s has no columns", domain.ErrInvalidInput, table)
	}
	tbl, err := dialect.QuoteIdentifier(table, a.dialect)
	if err != nil {
		return domain.Statement{}, err
	}

	keys := record.Keys()
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	argIndex := 0
	for i, k := range keys {
		col, err := dialect.QuoteColumn(k, a.dialect)
		if err != nil {
			return domain.Statement{}, err
		}
		sets[i] = col + " = " + dialect.Placeholder(argIndex, a.dialect)
		argIndex++
		v, _ := record.Get(k)
		args = append(args, v)
	}

	where, whereArgs, err := a.byID(idColumn, id, argIndex, conditions)
	if err != nil {
		return domain.Statement{}, err
	}

	return domain.Statement{
		Query:    "UPDATE " + tbl + " SET " + strings.Join(sets, ", ") + " " + where,
		Args:     append(args, whereArgs...),
		Dialect:  a.dialect,
		Kind:     domain.KindUpdate,
		IDColumn: idColumn,
	}, nil
}

// Delete builds DELETE FROM ... WHERE idColumn = p, followed by any scoping
// conditions.
func (a *Assembler) Delete(table, idColumn string, id any, conditions ...domain.Condition) (domain.Statement, error) {
	tbl, err := dialect.QuoteIdentifier(table, a.dialect)
	if err != nil {
		return domain.Statement{}, err
	}
	where, args, err := a.byID(idColumn, id, 0, conditions)
	if err != nil {
		return domain.Statement{}, err
	}
	return domain.Statement{
		Query:    "DELETE FROM " + tbl + " " + where,
		Args:     args,
		Dialect:  a.dialect,
		Kind:     domain.KindDelete,
		IDColumn: idColumn,
	}, nil
}

// byID renders the WHERE clause shared by Update and Delete.
func (a *Assembler) byID(idColumn string, id any, offset int, conditions []domain.Condition) (string, []any, error) {
	if idColumn == "" {
		return "", nil, fmt.Errorf("%w: id column is required", domain.ErrInvalidInput)
	}
	if id == nil {
		return "", nil, fmt.Errorf("%w: id value is required", domain.ErrInvalidInput)
	}
	all := make([]domain.Condition, 0, len(conditions)+1)
	all = append(all, domain.Filter{Field: idColumn, Operator: domain.Eq, Value: id})
	all = append(all, conditions...)
	where, err := NewWhere(a.dialect).Add(all...).BuildAt(offset)
	if err != nil {
		return "", nil, err
	}
	return where.SQL, where.Args, nil
}
