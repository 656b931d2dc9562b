package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/adapters/database/sqlite"
	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

func TestHooks_ObserveExecution(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	var seen []string
	hooks := NewHooks()
	hooks.OnBeforeExecute(AllTables, func(hc *HookContext) error {
		seen = append(seen, "before:"+string(hc.Statement.Kind))
		return nil
	})
	hooks.OnAfterExecute("tickets", func(hc *HookContext) error {
		seen = append(seen, "after:"+hc.Table)
		assert.Equal(t, int64(2), hc.Rows)
		assert.NoError(t, hc.Error)
		return nil
	})

	s := NewQueryService(sqlite.NewWithDB(db), domain.SQLite, WithHooks(hooks))
	mock.ExpectQuery(`SELECT * FROM "tickets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	rows, err := s.Find(context.Background(), Request{Table: "tickets"})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"before:select", "after:tickets"}, seen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHooks_BeforeVetoes(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	veto := errors.New("read-only window")
	hooks := NewHooks()
	hooks.OnBeforeExecute("tickets", func(hc *HookContext) error {
		if hc.Statement.IsWrite() {
			return veto
		}
		return nil
	})

	s := NewQueryService(sqlite.NewWithDB(db), domain.SQLite, WithHooks(hooks))
	_, err = s.Delete(context.Background(), Request{Table: "tickets", IDColumn: "id"}, 1)
	assert.ErrorIs(t, err, veto)
	require.NoError(t, mock.ExpectationsWereMet())

	hooks.ClearTable("tickets")
	mock.ExpectExec(`DELETE FROM "tickets" WHERE "id" = ?`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = s.Delete(context.Background(), Request{Table: "tickets", IDColumn: "id"}, 1)
	require.NoError(t, err)
}

func TestHooks_AfterErrorDoesNotMaskEngineError(t *testing.T) {
	engineErr := errors.New("boom")
	hookErr := errors.New("hook")

	hooks := NewHooks()
	hooks.OnAfterExecute(AllTables, func(hc *HookContext) error { return hookErr })
	s := NewQueryService(nil, domain.SQLite, WithHooks(hooks))

	err := s.observe(context.Background(), "t", domain.Statement{}, func() (int64, error) { return 0, engineErr })
	assert.ErrorIs(t, err, engineErr)

	err = s.observe(context.Background(), "t", domain.Statement{}, func() (int64, error) { return 1, nil })
	assert.ErrorIs(t, err, hookErr)

	hooks.Clear()
	var nilHooks *Hooks
	assert.NoError(t, nilHooks.Execute(&HookContext{Table: "t"}, BeforeExecute))
}
