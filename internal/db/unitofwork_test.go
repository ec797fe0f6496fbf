package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/wbshub/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*db.SQLiteUnitOfWork, *sql.DB) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database), database
}

func usageBatches(t *testing.T, database *sql.DB, wbsType string) (int, bool) {
	t.Helper()
	var n int
	err := database.QueryRow(`SELECT batches FROM template_usage WHERE wbs_type = ?`, wbsType).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false
	}
	require.NoError(t, err)
	return n, true
}

const insertUsage = `INSERT INTO template_usage (wbs_type, batches, last_used_at) VALUES (?, 1, '2026-01-01T00:00:00Z')`

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, database := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, insertUsage, "eletrico")
		return err
	})
	require.NoError(t, err)

	n, found := usageBatches(t, database, "eletrico")
	assert.True(t, found, "row should exist after commit")
	assert.Equal(t, 1, n)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, database := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if _, err := tx.ExecContext(ctx, insertUsage, "mecanico"); err != nil {
			return err
		}
		return errors.New("deliberate failure")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliberate failure")

	_, found := usageBatches(t, database, "mecanico")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, database := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_, _ = tx.ExecContext(ctx, insertUsage, "aquisicao")
			panic("boom")
		})
	})

	_, found := usageBatches(t, database, "aquisicao")
	assert.False(t, found, "row should not exist after panic rollback")
}
