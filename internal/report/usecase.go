package report

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	GrossSales(ctx context.Context, period model.Period) (decimal.Decimal, error)
	GrossProfit(ctx context.Context, period model.Period) (decimal.Decimal, error)
	CompletedWithdrawals(ctx context.Context, origin model.WithdrawalOrigin, period model.Period) (decimal.Decimal, error)
	// AvailableSales and AvailableProfit never go below zero.
	AvailableSales(ctx context.Context, period model.Period) (decimal.Decimal, error)
	AvailableProfit(ctx context.Context, period model.Period) (decimal.Decimal, error)
	CashSummary(ctx context.Context, period model.Period) (*model.CashSummary, error)

	InventoryValueAtCost(ctx context.Context) (decimal.Decimal, error)
	InventoryValueAtSalePrice(ctx context.Context) (decimal.Decimal, error)
	InventoryValuation(ctx context.Context) (*model.InventoryValuation, error)
}
