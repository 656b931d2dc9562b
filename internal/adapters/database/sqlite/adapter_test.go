package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/adapters/database"
	"github.com/satishbabariya/sqlguard/internal/adapters/database/sqlite"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

func TestClassify(t *testing.T) {
	constraint := func(ext sqlite3.ErrNoExtended) error {
		return sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: ext}
	}
	assert.Equal(t, database.ErrUniqueConstraint, sqlite.Classify(constraint(sqlite3.ErrConstraintUnique)))
	assert.Equal(t, database.ErrUniqueConstraint, sqlite.Classify(constraint(sqlite3.ErrConstraintPrimaryKey)))
	assert.Equal(t, database.ErrForeignKeyConstraint, sqlite.Classify(constraint(sqlite3.ErrConstraintForeignKey)))
	assert.Equal(t, database.ErrNullConstraint, sqlite.Classify(constraint(sqlite3.ErrConstraintNotNull)))
	assert.Nil(t, sqlite.Classify(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.Nil(t, sqlite.Classify(errors.New("other")))
}

func TestAdapter_ExecuteClassifies(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	a := sqlite.NewWithDB(db)
	assert.Equal(t, domain.SQLite, a.Dialect())

	q := `INSERT INTO "users" ("email") VALUES (?)`
	mock.ExpectExec(q).WithArgs("a@b").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})

	_, err = a.Execute(context.Background(), q, []any{"a@b"})
	assert.ErrorIs(t, err, database.ErrUniqueConstraint)
	require.NoError(t, mock.ExpectationsWereMet())
}
