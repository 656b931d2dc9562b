// Package dialect holds the per-database identifier quoting and placeholder
// rules. QuoteIdentifier is the only path by which a name reaches SQL text.
package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

var identRe = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)

// ValidSegment reports whether s is a single valid identifier segment.
func ValidSegment(s string) bool {
	return identRe.MatchString(s)
}

// ValidateIdentifier checks every dot-separated segment of name.
func ValidateIdentifier(name string) error {
	if name == "" {
		return &domain.InvalidIdentifierError{Identifier: name}
	}
	for _, seg := range strings.Split(name, ".") {
		if !identRe.MatchString(seg) {
			return &domain.InvalidIdentifierError{Identifier: name, Segment: seg}
		}
	}
	return nil
}

// ValidateColumn checks that name is a bare identifier with no schema part.
func ValidateColumn(name string) error {
	if !identRe.MatchString(name) {
		return &domain.InvalidIdentifierError{Identifier: name}
	}
	return nil
}

// CheckDialect rejects a dialect outside the supported set.
func CheckDialect(d domain.Dialect) error {
	if !d.Valid() {
		return fmt.Errorf("%w: unsupported dialect %q", domain.ErrInvalidInput, d)
	}
	return nil
}

// QuoteIdentifier validates and quotes a possibly schema-qualified name.
func QuoteIdentifier(name string, d domain.Dialect) (string, error) {
	if err := CheckDialect(d); err != nil {
		return "", err
	}
	if err := ValidateIdentifier(name); err != nil {
		return "", err
	}
	segs := strings.Split(name, ".")
	for i, seg := range segs {
		segs[i] = quoteSegment(seg, d)
	}
	return strings.Join(segs, "."), nil
}

// QuoteColumn validates and quotes a bare column name.
func QuoteColumn(name string, d domain.Dialect) (string, error) {
	if err := CheckDialect(d); err != nil {
		return "", err
	}
	if err := ValidateColumn(name); err != nil {
		return "", err
	}
	return quoteSegment(name, d), nil
}

func quoteSegment(seg string, d domain.Dialect) string {
	if d == domain.MySQL {
		return "`" + seg + "`"
	}
	return pq.QuoteIdentifier(seg)
}

// Unquote splits a quoted identifier produced by QuoteIdentifier back into
// its segments.
func Unquote(quoted string, d domain.Dialect) []string {
	q := `"`
	if d == domain.MySQL {
		q = "`"
	}
	parts := strings.Split(quoted, q+"."+q)
	if len(parts) > 0 {
		parts[0] = strings.TrimPrefix(parts[0], q)
		last := len(parts) - 1
		parts[last] = strings.TrimSuffix(parts[last], q)
	}
	return parts
}

// Placeholder returns the bind marker for the zero-based parameter index.
func Placeholder(index int, d domain.Dialect) string {
	if d == domain.PostgreSQL {
		return fmt.Sprintf("$%d", index+1)
	}
	return "?"
}

// NormalizeDirection returns DESC for any casing of "desc", ASC otherwise.
func NormalizeDirection(dir string) domain.Direction {
	if strings.EqualFold(strings.TrimSpace(dir), string(domain.Desc)) {
		return domain.Desc
	}
	return domain.Asc
}

// ParseDialect maps a dialect or driver name to a Dialect.
func ParseDialect(name string) (domain.Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg":
		return domain.PostgreSQL, nil
	case "mysql", "mariadb":
		return domain.MySQL, nil
	case "sqlite", "sqlite3":
		return domain.SQLite, nil
	}
	return "", fmt.Errorf("%w: unsupported dialect %q", domain.ErrInvalidInput, name)
}

// SupportsReturning reports whether INSERT ... RETURNING is available.
func SupportsReturning(d domain.Dialect) bool {
	return d == domain.PostgreSQL
}
