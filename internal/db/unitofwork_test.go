package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/midai/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestUoW(t *testing.T) *db.SQLiteUnitOfWork {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database)
}

func putPrefs(ctx context.Context, tx db.DBTX, userID, data string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO preferences (user_id, data, updated_at) VALUES (?, ?, '2025-03-14T00:00:00Z')`,
		userID, data)
	return err
}

func readPrefs(t *testing.T, uow *db.SQLiteUnitOfWork, userID string) (string, bool) {
	t.Helper()
	var data string
	var found bool
	require.NoError(t, uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT data FROM preferences WHERE user_id = ?`, userID).Scan(&data); err != nil {
			return nil
		}
		found = true
		return nil
	}))
	return data, found
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow := openTestUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return putPrefs(ctx, tx, "u1", `{"keywordsUp":["budget"]}`)
	})
	require.NoError(t, err)

	data, found := readPrefs(t, uow, "u1")
	assert.True(t, found)
	assert.Equal(t, `{"keywordsUp":["budget"]}`, data)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow := openTestUoW(t)
	boom := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := putPrefs(ctx, tx, "u2", `{}`); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, found := readPrefs(t, uow, "u2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow := openTestUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = putPrefs(ctx, tx, "u3", `{}`)
			panic("boom")
		})
	})

	_, found := readPrefs(t, uow, "u3")
	assert.False(t, found, "row should not exist after panic rollback")
}

func TestWithinTx_CanceledContext(t *testing.T) {
	uow := openTestUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestWithinTx_DoesNotRetryOrdinaryErrors(t *testing.T) {
	uow := openTestUoW(t)
	boom := errors.New("not busy")

	attempts := 0
	err := uow.WithinTx(context.Background(), func(context.Context, db.DBTX) error {
		attempts++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestIsBusy(t *testing.T) {
	assert.False(t, db.IsBusy(nil))
	assert.False(t, db.IsBusy(errors.New("database is locked")))
}
