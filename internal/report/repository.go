package report

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/shopspring/decimal"
)

// Repository holds the read-only aggregate queries. Every period is the
// half-open interval [Start, End).
type Repository interface {
	SumSales(ctx context.Context, period model.Period) (decimal.Decimal, error)
	SumProfit(ctx context.Context, period model.Period) (decimal.Decimal, error)
	SumCompletedWithdrawals(ctx context.Context, origin model.WithdrawalOrigin, period model.Period) (decimal.Decimal, error)
	InventoryValue(ctx context.Context) (*model.InventoryValuation, error)
}
