package ui

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, `"a"`, FormatValue("a"))
	assert.Equal(t, `"b"`, FormatValue([]byte("b")))
	assert.Equal(t, "42", FormatValue(42))
}

func TestTableData(t *testing.T) {
	data := TableData([]map[string]any{
		{"id": 1, "name": "Ada"},
		{"id": 2, "email": nil},
	})
	assert.Equal(t, pterm.TableData{
		{"email", "id", "name"},
		{"", "1", `"Ada"`},
		{"NULL", "2", ""},
	}, data)
}

func TestExplain(t *testing.T) {
	stmt := domain.Statement{Query: `SELECT * FROM "t" WHERE "a" = $1`, Dialect: domain.PostgreSQL, Kind: domain.KindSelect}
	md := Explain(stmt, "manager", []domain.Condition{
		domain.Filter{Field: "a", Operator: domain.Eq, Value: 1},
		domain.Group{Combinator: domain.OR, Filters: []domain.Filter{
			{Field: "b", Operator: domain.Gt, Value: 2},
			{Field: "c", Operator: domain.Eq, Value: "x"},
		}},
	})
	assert.Contains(t, md, "# SELECT on postgres")
	assert.Contains(t, md, "role **manager**")
	assert.Contains(t, md, "- `a eq 1`")
	assert.Contains(t, md, "- `(b gt 2 OR c eq x)`")
	assert.Contains(t, md, "```sql\n"+stmt.Query+"\n```")

	assert.Contains(t, Explain(stmt, "", nil), "No role restriction matched.")
}

func TestPrintStatement(t *testing.T) {
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })

	PrintStatement(domain.Statement{Query: "DELETE FROM t", Dialect: domain.SQLite, Kind: domain.KindDelete})
	assert.Contains(t, buf.String(), "DELETE FROM t")
	assert.Contains(t, buf.String(), "no arguments")
}
