package sale

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/sale/dto"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create inserts the sale and its line items.
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id string) (*model.Sale, error)
	FindByDebtID(ctx context.Context, debtID string) (*model.Sale, error)
	FindByExternalRef(ctx context.Context, ref string) (*model.Sale, error)
	FindAll(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)

	MarkVoided(ctx context.Context, id, reason, userID string, at time.Time) error
	MarkItemRemoved(ctx context.Context, saleID, itemID string, newTotal decimal.Decimal) error

	// Delete removes the sale, its line items and any cash closing link.
	Delete(ctx context.Context, id string) error
}
