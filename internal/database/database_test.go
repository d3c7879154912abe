package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := NewSQLite(&Config{Path: filepath.Join(t.TempDir(), "ledger.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	v1, err := Migrate(db)
	require.NoError(t, err)
	assert.Equal(t, uint(6), v1)

	v2, err := Migrate(db)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`))
	for _, want := range []string{"products", "debts", "debt_items", "debt_payments", "sales", "sale_items", "cash_withdrawals", "cash_closings", "stock_movements"} {
		assert.Contains(t, tables, want)
	}
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`CREATE TABLE counters (n INTEGER)`)
	require.NoError(t, err)

	tm := NewTxManager(db)
	boom := errors.New("boom")

	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		assert.True(t, InTx(ctx))
		if _, err := Conn(ctx, db).ExecContext(ctx, `INSERT INTO counters (n) VALUES (1)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Get(&count, `SELECT count(*) FROM counters`))
	assert.Equal(t, 0, count)
}

func TestWithinTxNestedJoinsOuter(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`CREATE TABLE counters (n INTEGER)`)
	require.NoError(t, err)
	tm := NewTxManager(db)

	err = tm.WithinTx(context.Background(), func(ctx context.Context) error {
		if _, err := Conn(ctx, db).ExecContext(ctx, `INSERT INTO counters (n) VALUES (1)`); err != nil {
			return err
		}
		return tm.WithinTx(ctx, func(inner context.Context) error {
			_, err := Conn(inner, db).ExecContext(inner, `INSERT INTO counters (n) VALUES (2)`)
			return err
		})
	})
	require.NoError(t, err)

	var sum int
	require.NoError(t, db.Get(&sum, `SELECT COALESCE(SUM(n), 0) FROM counters`))
	assert.Equal(t, 3, sum)
}

func TestWithinTxSerializesWriters(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`CREATE TABLE counters (id INTEGER PRIMARY KEY, n INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO counters (id, n) VALUES (1, 0)`)
	require.NoError(t, err)
	tm := NewTxManager(db)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tm.WithinTx(context.Background(), func(ctx context.Context) error {
				var n int
				if err := Conn(ctx, db).GetContext(ctx, &n, `SELECT n FROM counters WHERE id = 1`); err != nil {
					return err
				}
				_, err := Conn(ctx, db).ExecContext(ctx, `UPDATE counters SET n = ? WHERE id = 1`, n+1)
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var n int
	require.NoError(t, db.Get(&n, `SELECT n FROM counters WHERE id = 1`))
	assert.Equal(t, 20, n)
}
