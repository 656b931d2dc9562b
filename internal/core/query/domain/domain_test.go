package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

func TestParseOperator(t *testing.T) {
	for _, op := range domain.Operators() {
		got, err := domain.ParseOperator(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	got, err := domain.ParseOperator("")
	require.NoError(t, err)
	assert.Equal(t, domain.Eq, got)

	got, err = domain.ParseOperator(" StartsWith ")
	require.NoError(t, err)
	assert.Equal(t, domain.StartsWith, got)

	_, err = domain.ParseOperator("regex")
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperator)
}

func TestOperator_Valid(t *testing.T) {
	assert.True(t, domain.Operator("").Valid())
	assert.True(t, domain.Nin.Valid())
	assert.False(t, domain.Operator("between").Valid())
	assert.True(t, domain.In.IsList())
	assert.False(t, domain.Eq.IsList())
}

func TestParseCombinator(t *testing.T) {
	c, err := domain.ParseCombinator("or")
	require.NoError(t, err)
	assert.Equal(t, domain.OR, c)

	c, err = domain.ParseCombinator("")
	require.NoError(t, err)
	assert.Equal(t, domain.AND, c)

	_, err = domain.ParseCombinator("nand")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecord_PreservesInsertionOrder(t *testing.T) {
	r := domain.NewRecord()
	r.Set("z", 1)
	r.Set("a", 2)
	r.Set("m", 3)
	r.Set("z", 4)

	assert.Equal(t, []string{"z", "a", "m"}, r.Keys())
	v, ok := r.Get("z")
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Equal(t, 3, r.Len())
}

func TestRecord_JSONKeepsKeyOrder(t *testing.T) {
	var r domain.Record
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x","priority":3,"ratio":0.5,"tags":["a"]}`), &r))

	assert.Equal(t, []string{"title", "priority", "ratio", "tags"}, r.Keys())
	v, _ := r.Get("priority")
	assert.Equal(t, int64(3), v)
	v, _ = r.Get("ratio")
	assert.Equal(t, 0.5, v)

	out, err := json.Marshal(&r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","priority":3,"ratio":0.5,"tags":["a"]}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &r))
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := domain.RecordOf("a", 1)
	c := r.Clone()
	c.Set("b", 2)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 2, c.Len())
}

func TestRecordFromMap_SortsKeys(t *testing.T) {
	r := domain.RecordFromMap(map[string]any{"b": 1, "a": 2})
	assert.Equal(t, []string{"a", "b"}, r.Keys())
}

func TestErrors_Is(t *testing.T) {
	err := fmt.Errorf("update: %w", &domain.NotFoundError{Table: "tasks", IDColumn: "id", ID: 3})
	assert.True(t, domain.IsNotFound(err))
	assert.Contains(t, err.Error(), "id=3")

	err = &domain.InvalidIdentifierError{Identifier: "a.b c", Segment: "b c"}
	assert.True(t, domain.IsInvalidIdentifier(err))
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}
