// Package mysql implements MySQL database adapter.
package mysql

import (
	"database/sql"
	"errors"

	mysqldrv "github.com/go-sql-driver/mysql" // MySQL driver

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

// MySQL server error numbers.
const (
	errBadNull           = 1048
	errDupEntry          = 1062
	errRowIsReferenced   = 1451
	errNoReferencedRow   = 1452
	errRowIsReferenced2  = 1217
	errNoReferencedRow2  = 1216
	errNullNotAllowedCol = 1364
)

// MySQLAdapter implements the database.Adapter interface for MySQL.
type MySQLAdapter struct {
	*database.SQLEngine
}

// NewMySQLAdapter creates a new MySQL adapter.
func NewMySQLAdapter(config database.Config) *MySQLAdapter {
	return &MySQLAdapter{SQLEngine: database.NewSQLEngine("mysql", domain.MySQL, config, Classify)}
}

// NewWithDB wraps an existing pool.
func NewWithDB(db *sql.DB) *MySQLAdapter {
	a := NewMySQLAdapter(database.Config{})
	a.WithDB(db)
	return a
}

// Classify maps MySQL server errors to adapter sentinels.
func Classify(err error) error {
	var myErr *mysqldrv.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}
	switch myErr.Number {
	case errDupEntry:
		return database.ErrUniqueConstraint
	case errNoReferencedRow, errNoReferencedRow2, errRowIsReferenced, errRowIsReferenced2:
		return database.ErrForeignKeyConstraint
	case errBadNull, errNullNotAllowedCol:
		return database.ErrNullConstraint
	}
	return nil
}

// Ensure MySQLAdapter implements Adapter interface.
var _ database.Adapter = (*MySQLAdapter)(nil)
