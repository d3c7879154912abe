package inventory

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/inventory/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
)

type Repository interface {
	GetProductStock(ctx context.Context, productID string) (*dto.ProductStock, error)

	// Movements / Audit
	LogMovement(ctx context.Context, movement *model.StockMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)

	// AdjustStockWithMovement moves stock from before to after and logs the
	// movement. It fails with ErrConcurrentUpdate when the stored stock is no
	// longer before.
	AdjustStockWithMovement(ctx context.Context, before float64, movement *model.StockMovement) error
}
