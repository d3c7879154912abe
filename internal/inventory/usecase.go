package inventory

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/inventory/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
)

// Ledger is the only component that mutates product stock. Both operations
// join the transaction carried by ctx when there is one.
type Ledger interface {
	Decrement(ctx context.Context, input *dto.StockChangeInput) (*model.StockMovement, error)
	Increment(ctx context.Context, input *dto.StockChangeInput) (*model.StockMovement, error)
}

type UseCase interface {
	Ledger
	GetProductStock(ctx context.Context, productID string) (*dto.ProductStock, error)
	AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StockMovement, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
