package client_test

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/adapters/database/sqlite"
	"github.com/satishbabariya/sqlguard/pkg/client"
)

const policyDoc = `
roles:
  "3":
    - conditions:
        - field: team
          value: blue
  "5":
    - combinator: OR
      conditions:
        - field: owner_id
          value: currentUser.id
        - field: status
          value: open
          exposed: true
`

func TestClient_CompileWithPolicyAndTenancy(t *testing.T) {
	c, err := client.New(nil, client.PostgreSQL,
		client.WithTenancy(client.TenancyConfig{Strategy: client.TenancyTablePrefix}),
	)
	require.NoError(t, err)
	require.NoError(t, c.LoadPolicy(strings.NewReader(policyDoc)))

	stmt, err := c.CompileFind(client.Request{
		Table:    "tasks",
		TenantID: "acme",
		Context:  client.Context{User: &client.User{ID: 11, Roles: []string{"3", "5"}}},
		Options:  client.QueryOptions{OrderBy: []client.OrderBy{{Field: "id", Direction: client.Desc}}},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "acme_tasks" WHERE ("owner_id" = $1 OR "status" = $2) ORDER BY "id" DESC`, stmt.Query)
	assert.Equal(t, []any{11, "open"}, stmt.Args)
}

func TestClient_BuilderSharesTenancy(t *testing.T) {
	c, err := client.New(nil, client.MySQL,
		client.WithTenancy(client.TenancyConfig{Strategy: client.TenancyColumn, ColumnName: "org"}),
		client.WithTenant("acme"),
	)
	require.NoError(t, err)
	require.NoError(t, c.SetRoleRestrictions(client.RoleRestrictions{
		"viewer": {{Conditions: []client.PolicyCondition{{Field: "published", Value: true}}}},
	}))

	b, err := c.Restrict(c.Builder().From("posts"), client.Context{User: &client.User{Roles: []string{"viewer"}}}, nil)
	require.NoError(t, err)
	stmt, err := b.Where(client.Filter{Field: "title", Operator: client.StartsWith, Value: "Go"}).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `posts` WHERE `title` LIKE ? AND `published` = ? AND `org` = ?", stmt.Query)
	assert.Equal(t, []any{"Go%", true, "acme"}, stmt.Args)
}

func TestClient_ExecutesThroughEngine(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	c, err := client.New(sqlite.NewWithDB(db), client.SQLite,
		client.WithTables(client.TableDefinition{Name: "tasks", IDColumn: "task_id"}),
		client.WithDenyUnmatched(true),
	)
	require.NoError(t, err)
	require.NoError(t, c.SetRoleRestrictions(client.RoleRestrictions{
		"member": {{Conditions: []client.PolicyCondition{{Field: "owner_id", Value: "currentUser.id"}}}},
	}))
	member := client.Context{User: &client.User{ID: 4, Roles: []string{"member"}}}

	mock.ExpectExec(`DELETE FROM "tasks" WHERE "task_id" = ? AND "owner_id" = ?`).
		WithArgs(9, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = c.Delete(context.Background(), client.Request{Table: "tasks", Context: member}, 9)
	assert.True(t, client.IsNotFound(err))

	_, err = c.Delete(context.Background(), client.Request{Table: "tasks", Context: client.Context{}}, 9)
	assert.True(t, client.IsPolicyMismatch(err))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_RejectsBadTables(t *testing.T) {
	_, err := client.New(nil, client.PostgreSQL, client.WithTables(client.TableDefinition{Name: "bad;name"}))
	assert.ErrorIs(t, err, client.ErrInvalidIdentifier)
}

func TestClient_NormalizesDialect(t *testing.T) {
	c, err := client.New(nil, "postgresql")
	require.NoError(t, err)
	assert.Equal(t, client.PostgreSQL, c.Dialect())

	stmt, err := c.CompileFind(client.Request{
		Table:   "tasks",
		Filters: []client.Filter{{Field: "id", Value: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "tasks" WHERE "id" = $1`, stmt.Query)

	for _, d := range []client.Dialect{"", "oracle"} {
		_, err = client.New(nil, d)
		assert.ErrorIs(t, err, client.ErrInvalidInput, "%q", d)
	}
}

func TestUnsafeRawAccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	raw := client.NewUnsafeRawAccess(db)
	assert.Same(t, db, raw.DB())

	mock.ExpectQuery("SELECT version()").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow([]byte("16.1")))
	rows, err := raw.QueryRaw(context.Background(), "SELECT version()")
	require.NoError(t, err)
	assert.Equal(t, "16.1", rows[0]["version"])

	mock.ExpectExec("VACUUM").WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = raw.ExecuteRaw(context.Background(), "VACUUM")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewAdapter(t *testing.T) {
	a, err := client.NewAdapter(client.DatabaseConfig{URL: "postgres://localhost/app"})
	require.NoError(t, err)
	assert.Equal(t, client.PostgreSQL, a.Dialect())

	a, err = client.NewAdapter(client.DatabaseConfig{URL: "file:app.db"})
	require.NoError(t, err)
	assert.Equal(t, client.SQLite, a.Dialect())

	a, err = client.NewAdapter(client.DatabaseConfig{Provider: "mariadb", URL: "user@tcp(localhost)/app"})
	require.NoError(t, err)
	assert.Equal(t, client.MySQL, a.Dialect())

	_, err = client.NewAdapter(client.DatabaseConfig{URL: "oracle://x"})
	assert.ErrorIs(t, err, client.ErrInvalidInput)
}
