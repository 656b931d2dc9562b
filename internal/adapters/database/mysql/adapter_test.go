package mysql_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/adapters/database/mysql"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, database.ErrUniqueConstraint, mysql.Classify(&mysqldrv.MySQLError{Number: 1062}))
	assert.Equal(t, database.ErrForeignKeyConstraint, mysql.Classify(&mysqldrv.MySQLError{Number: 1452}))
	assert.Equal(t, database.ErrForeignKeyConstraint, mysql.Classify(&mysqldrv.MySQLError{Number: 1451}))
	assert.Equal(t, database.ErrNullConstraint, mysql.Classify(&mysqldrv.MySQLError{Number: 1048}))
	assert.Nil(t, mysql.Classify(&mysqldrv.MySQLError{Number: 1146}))
}

func TestAdapter_InsertReportsLastInsertID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	a := mysql.NewWithDB(db)
	assert.Equal(t, domain.MySQL, a.Dialect())

	q := "INSERT INTO `users` (`name`) VALUES (?)"
	mock.ExpectExec(q).WithArgs("Ada").WillReturnResult(sqlmock.NewResult(11, 1))

	res, err := a.Execute(context.Background(), q, []any{"Ada"})
	require.NoError(t, err)
	assert.Equal(t, database.ExecResult{Changes: 1, LastInsertID: int64(11)}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}
