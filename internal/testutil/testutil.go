// Package testutil opens migrated SQLite databases and seeds rows for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewDB returns a migrated database in a fresh temp directory.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.NewSQLite(&database.Config{
		Path:          filepath.Join(t.TempDir(), "ledger.db"),
		BusyTimeoutMS: 5000,
		MaxOpenConns:  4,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.Migrate(db)
	require.NoError(t, err)
	return db
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedProduct inserts an active product and returns it.
func SeedProduct(t *testing.T, db *sqlx.DB, code string, cost, price string, stock float64) *model.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Code:      code,
		Name:      "Product " + code,
		CostPrice: Dec(cost),
		SalePrice: Dec(price),
		Stock:     stock,
		MinStock:  1,
		IsActive:  true,
		Unit:      "un",
	}
	_, err := db.NamedExec(`
        INSERT INTO products (id, code, name, cost_price, sale_price, stock, min_stock, is_active, sold_by_weight, unit, created_at, updated_at)
        VALUES (:id, :code, :name, :cost_price, :sale_price, :stock, :min_stock, :is_active, :sold_by_weight, :unit, :created_at, :updated_at)`, p)
	require.NoError(t, err)
	return p
}

func SeedCustomer(t *testing.T, db *sqlx.DB, name string) *model.Customer {
	t.Helper()
	now := time.Now().UTC()
	c := &model.Customer{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		DebtDiscount: decimal.Zero,
	}
	_, err := db.NamedExec(`
        INSERT INTO customers (id, name, tax_id, phone, email, address, is_special, debt_discount, created_at, updated_at)
        VALUES (:id, :name, :tax_id, :phone, :email, :address, :is_special, :debt_discount, :created_at, :updated_at)`, c)
	require.NoError(t, err)
	return c
}

// SeedWithdrawal inserts a withdrawal; approvedAt is set only for completed ones.
func SeedWithdrawal(t *testing.T, db *sqlx.DB, origin model.WithdrawalOrigin, amount string, status model.WithdrawalStatus, at time.Time) *model.CashWithdrawal {
	t.Helper()
	w := &model.CashWithdrawal{
		ID:          uuid.New().String(),
		UserID:      "u1",
		Amount:      Dec(amount),
		Origin:      origin,
		Status:      status,
		RequestedAt: at.UTC(),
	}
	if status == model.WithdrawalCompleted {
		approved := at.UTC()
		w.ApprovedAt = &approved
	}
	_, err := db.NamedExec(`
        INSERT INTO cash_withdrawals (id, user_id, approver_id, amount, reason, origin, status, requested_at, approved_at)
        VALUES (:id, :user_id, :approver_id, :amount, :reason, :origin, :status, :requested_at, :approved_at)`, w)
	require.NoError(t, err)
	return w
}

// Stock reads the current stock of a product straight from the table.
func Stock(t *testing.T, db *sqlx.DB, productID string) float64 {
	t.Helper()
	var stock float64
	require.NoError(t, db.GetContext(context.Background(), &stock, `SELECT stock FROM products WHERE id = ?`, productID))
	return stock
}

func Count(t *testing.T, db *sqlx.DB, query string, args ...interface{}) int {
	t.Helper()
	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, query, args...))
	return n
}
