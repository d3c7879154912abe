package repository

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type SQLiteRepository struct {
	DB *sqlx.DB
}

func NewSQLiteRepository(db *sqlx.DB) *SQLiteRepository {
	return &SQLiteRepository{DB: db}
}

func (r *SQLiteRepository) SumSales(ctx context.Context, p model.Period) (decimal.Decimal, error) {
	return r.sum(ctx, "sum sales", `
        SELECT COALESCE(SUM(total), 0) FROM sales
        WHERE status != ? AND sale_date >= ? AND sale_date < ?`,
		model.SaleVoided, p.Start.UTC(), p.End.UTC())
}

func (r *SQLiteRepository) SumProfit(ctx context.Context, p model.Period) (decimal.Decimal, error) {
	return r.sum(ctx, "sum profit", `
        SELECT COALESCE(SUM(si.subtotal - si.unit_cost_price * si.quantity), 0)
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        WHERE s.status != ? AND si.status IS NULL
          AND s.sale_date >= ? AND s.sale_date < ?`,
		model.SaleVoided, p.Start.UTC(), p.End.UTC())
}

func (r *SQLiteRepository) SumCompletedWithdrawals(ctx context.Context, origin model.WithdrawalOrigin, p model.Period) (decimal.Decimal, error) {
	return r.sum(ctx, "sum withdrawals", `
        SELECT COALESCE(SUM(amount), 0) FROM cash_withdrawals
        WHERE status = ? AND origin = ? AND approved_at >= ? AND approved_at < ?`,
		model.WithdrawalCompleted, origin, p.Start.UTC(), p.End.UTC())
}

func (r *SQLiteRepository) InventoryValue(ctx context.Context) (*model.InventoryValuation, error) {
	var v struct {
		AtCost      decimal.Decimal `db:"at_cost"`
		AtSalePrice decimal.Decimal `db:"at_sale_price"`
	}
	err := database.Conn(ctx, r.DB).GetContext(ctx, &v, `
        SELECT COALESCE(SUM(stock * cost_price), 0) AS at_cost,
               COALESCE(SUM(stock * sale_price), 0) AS at_sale_price
        FROM products
        WHERE is_active = 1`)
	if err != nil {
		return nil, apperror.Persistence("inventory value", err)
	}
	return &model.InventoryValuation{AtCost: v.AtCost, AtSalePrice: v.AtSalePrice}, nil
}

func (r *SQLiteRepository) sum(ctx context.Context, op, query string, args ...interface{}) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := database.Conn(ctx, r.DB).GetContext(ctx, &total, query, args...); err != nil {
		return decimal.Zero, apperror.Persistence(op, err)
	}
	return total, nil
}
