package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/core/query/compiler"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

func TestAssembler_Select(t *testing.T) {
	a := compiler.NewAssembler(domain.PostgreSQL)

	stmt, err := a.Select("users", domain.Conditions(domain.Filter{Field: "active", Value: true}), domain.QueryOptions{
		Columns: []string{"id", "email"},
		OrderBy: []domain.OrderBy{{Field: "created_at", Direction: "desc"}, {Field: "id"}},
		Limit:   domain.Uint(10),
		Offset:  domain.Uint(20),
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "email" FROM "users" WHERE "active" = $1 ORDER BY "created_at" DESC, "id" ASC LIMIT $2 OFFSET $3`, stmt.Query)
	assert.Equal(t, []any{true, uint(10), uint(20)}, stmt.Args)
	assert.Equal(t, domain.KindSelect, stmt.Kind)
	assert.False(t, stmt.IsWrite())
}

func TestAssembler_SelectOmitsAbsentClauses(t *testing.T) {
	stmt, err := compiler.NewAssembler(domain.SQLite).Select("users", nil, domain.QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users"`, stmt.Query)
	assert.Empty(t, stmt.Args)
}

func TestAssembler_OffsetWithoutLimit(t *testing.T) {
	opts := domain.QueryOptions{Offset: domain.Uint(5)}

	stmt, err := compiler.NewAssembler(domain.MySQL).Select("users", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` LIMIT 18446744073709551615 OFFSET ?", stmt.Query)
	assert.Equal(t, []any{uint(5)}, stmt.Args)

	stmt, err = compiler.NewAssembler(domain.SQLite).Select("users", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" LIMIT -1 OFFSET ?`, stmt.Query)

	stmt, err = compiler.NewAssembler(domain.PostgreSQL).Select("users", nil, opts)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" OFFSET $1`, stmt.Query)
}

func TestAssembler_SelectRejectsBadIdentifiers(t *testing.T) {
	a := compiler.NewAssembler(domain.PostgreSQL)

	_, err := a.Select("users; DROP TABLE x", nil, domain.QueryOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)

	_, err = a.Select("users", nil, domain.QueryOptions{OrderBy: []domain.OrderBy{{Field: "id desc"}}})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)

	_, err = a.Select("users", nil, domain.QueryOptions{Columns: []string{"*"}})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}

func TestAssembler_Count(t *testing.T) {
	stmt, err := compiler.NewAssembler(domain.MySQL).Count("orders", domain.Conditions(domain.Filter{Field: "status", Value: "paid"}))
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) as count FROM `orders` WHERE `status` = ?", stmt.Query)
	assert.Equal(t, []any{"paid"}, stmt.Args)
	assert.Equal(t, domain.KindCount, stmt.Kind)

	stmt, err = compiler.NewAssembler(domain.MySQL).Count("orders", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) as count FROM `orders`", stmt.Query)
}

func TestAssembler_Insert(t *testing.T) {
	rec := domain.RecordOf("name", "Ada", "email", "ada@example.com")

	stmt, err := compiler.NewAssembler(domain.PostgreSQL).Insert("users", rec)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name", "email") VALUES ($1, $2) RETURNING *`, stmt.Query)
	assert.Equal(t, []any{"Ada", "ada@example.com"}, stmt.Args)
	assert.True(t, stmt.Returning)

	stmt, err = compiler.NewAssembler(domain.SQLite).Insert("users", rec)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("name", "email") VALUES (?, ?)`, stmt.Query)
	assert.False(t, stmt.Returning)
}

func TestAssembler_InsertDefaultValues(t *testing.T) {
	stmt, err := compiler.NewAssembler(domain.PostgreSQL).Insert("events", domain.NewRecord())
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "events" DEFAULT VALUES RETURNING *`, stmt.Query)

	stmt, err = compiler.NewAssembler(domain.MySQL).Insert("events", domain.NewRecord())
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `events` () VALUES ()", stmt.Query)

	stmt, err = compiler.NewAssembler(domain.SQLite).Insert("events", nil)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "events" DEFAULT VALUES`, stmt.Query)
}

func TestAssembler_Update(t *testing.T) {
	rec := domain.RecordOf("title", "new", "done", true)
	stmt, err := compiler.NewAssembler(domain.PostgreSQL).Update("tasks", "task_id", 42, rec,
		domain.Filter{Field: "tenant_id", Value: "acme"})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "tasks" SET "title" = $1, "done" = $2 WHERE "task_id" = $3 AND "tenant_id" = $4`, stmt.Query)
	assert.Equal(t, []any{"new", true, 42, "acme"}, stmt.Args)
	assert.Equal(t, "task_id", stmt.IDColumn)
	assert.True(t, stmt.IsWrite())
}

func TestAssembler_UpdateRequiresColumnsAndID(t *testing.T) {
	a := compiler.NewAssembler(domain.PostgreSQL)

	_, err := a.Update("tasks", "id", 1, domain.NewRecord())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = a.Update("tasks", "", 1, domain.RecordOf("a", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = a.Update("tasks", "id", nil, domain.RecordOf("a", 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAssembler_Delete(t *testing.T) {
	stmt, err := compiler.NewAssembler(domain.MySQL).Delete("tasks", "id", "abc",
		domain.Group{Combinator: domain.OR, Filters: []domain.Filter{
			{Field: "owner_id", Value: 1},
			{Field: "public", Value: true},
		}})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `tasks` WHERE `id` = ? AND (`owner_id` = ? OR `public` = ?)", stmt.Query)
	assert.Equal(t, []any{"abc", 1, true}, stmt.Args)
	assert.Equal(t, domain.KindDelete, stmt.Kind)
}

func TestAssembler_Idempotent(t *testing.T) {
	a := compiler.NewAssembler(domain.PostgreSQL)
	conds := domain.Conditions(domain.Filter{Field: "a", Operator: domain.In, Value: []int{1, 2}})
	opts := domain.QueryOptions{Limit: domain.Uint(1)}

	first, err := a.Select("t", conds, opts)
	require.NoError(t, err)
	second, err := a.Select("t", conds, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
