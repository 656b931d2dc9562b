package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
	"github.com/satishbabariya/sqlguard/internal/core/schema"
)

func tasksTable() schema.TableDefinition {
	return schema.TableDefinition{
		Name:     "tasks",
		IDColumn: "task_id",
		Columns: []schema.ColumnDefinition{
			{Name: "task_id", Type: schema.TypeUUID, Default: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
			{Name: "title", Type: schema.TypeString},
			{Name: "owner_id", Type: schema.TypeInteger, References: &schema.ForeignKey{Table: "users", Column: "id", OnDelete: "cascade"}},
		},
	}
}

func TestTableDefinition_Validate(t *testing.T) {
	require.NoError(t, tasksTable().Validate())

	bad := tasksTable()
	bad.Columns[0].Default = "not-a-uuid"
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)

	bad = tasksTable()
	bad.Columns[1].Type = "money"
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)

	bad = tasksTable()
	bad.Columns[2].References.OnDelete = "explode"
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)

	bad = tasksTable()
	bad.Columns[1].Name = "title;--"
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidIdentifier)

	bad = tasksTable()
	bad.IDColumn = "id"
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)

	bad = tasksTable()
	bad.Columns = append(bad.Columns, schema.ColumnDefinition{Name: "title", Type: schema.TypeText})
	assert.ErrorIs(t, bad.Validate(), domain.ErrInvalidInput)
}

func TestTableDefinition_CheckFields(t *testing.T) {
	tbl := tasksTable()
	assert.NoError(t, tbl.CheckFields("title", "owner_id"))
	assert.ErrorIs(t, tbl.CheckFields("title", "secret"), domain.ErrUnknownField)

	open := schema.TableDefinition{Name: "logs"}
	assert.NoError(t, open.CheckFields("anything"))
	assert.Equal(t, "id", open.PrimaryKey())
}

func TestParseReferentialAction(t *testing.T) {
	a, err := schema.ParseReferentialAction("set_null")
	require.NoError(t, err)
	assert.Equal(t, schema.SetNull, a)

	a, err = schema.ParseReferentialAction("")
	require.NoError(t, err)
	assert.Equal(t, schema.NoAction, a)
}

func TestRegistry(t *testing.T) {
	reg, err := schema.NewRegistry(tasksTable())
	require.NoError(t, err)

	tbl, ok := reg.Table("tasks")
	require.True(t, ok)
	assert.Equal(t, "task_id", tbl.PrimaryKey())

	_, ok = reg.Table("missing")
	assert.False(t, ok)

	_, err = schema.NewRegistry(schema.TableDefinition{Name: "bad name"})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}
