package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/inventory"
	"github.com/fekuna/omnipos-ledger/internal/inventory/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/metrics"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo   inventory.Repository
	tx     database.Transactor
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, tx database.Transactor, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *inventoryUseCase) Decrement(ctx context.Context, input *dto.StockChangeInput) (*model.StockMovement, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive, got %v", input.Quantity)
	}
	return uc.apply(ctx, input, -input.Quantity)
}

func (uc *inventoryUseCase) Increment(ctx context.Context, input *dto.StockChangeInput) (*model.StockMovement, error) {
	if input.Quantity <= 0 {
		return nil, apperror.Validation("quantity must be positive, got %v", input.Quantity)
	}
	return uc.apply(ctx, input, input.Quantity)
}

func (uc *inventoryUseCase) GetProductStock(ctx context.Context, productID string) (*dto.ProductStock, error) {
	ps, err := uc.repo.GetProductStock(ctx, productID)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, apperror.NotFound("product", productID)
	}
	return ps, nil
}

func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, input *dto.AdjustInventoryInput) (*model.StockMovement, error) {
	if input.QuantityChange == 0 {
		return nil, apperror.Validation("quantity change cannot be zero")
	}
	if input.Reason == "" {
		return nil, apperror.Validation("adjustment reason is required")
	}

	var movement *model.StockMovement
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		movement, err = uc.apply(ctx, &dto.StockChangeInput{
			ProductID:     input.ProductID,
			Quantity:      abs(input.QuantityChange),
			MovementType:  model.MovementAdjustment,
			ReferenceType: "manual_adjustment",
			UserID:        input.UserID,
			Notes:         input.Reason,
		}, input.QuantityChange)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("inventory adjusted",
		zap.String("product_id", input.ProductID),
		zap.Float64("change", movement.QuantityChange),
		zap.Float64("stock", movement.QuantityAfter),
	)
	return movement, nil
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	if filters == nil {
		filters = &dto.MovementFilters{}
	}
	return uc.repo.ListMovements(ctx, filters)
}

// apply re-reads the stock inside the write transaction, so a decrement can
// never take it below zero even when the caller validated earlier.
func (uc *inventoryUseCase) apply(ctx context.Context, input *dto.StockChangeInput, change float64) (*model.StockMovement, error) {
	var movement *model.StockMovement
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		ps, err := uc.GetProductStock(ctx, input.ProductID)
		if err != nil {
			return err
		}

		before := ps.Stock
		after := model.RoundQuantity(before + change)
		if after < 0 {
			return &apperror.InsufficientStockError{
				ProductID: input.ProductID,
				Requested: -change,
				Available: before,
			}
		}

		movement = &model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      input.ProductID,
			MovementType:   input.MovementType,
			QuantityChange: model.RoundQuantity(change),
			QuantityBefore: before,
			QuantityAfter:  after,
			ReferenceType:  optional(input.ReferenceType),
			ReferenceID:    optional(input.ReferenceID),
			Notes:          input.Notes,
			CreatedBy:      optional(input.UserID),
			CreatedAt:      time.Now().UTC(),
		}
		return uc.repo.AdjustStockWithMovement(ctx, before, movement)
	})
	if err != nil {
		return nil, err
	}

	metrics.StockMovementsTotal.WithLabelValues(string(movement.MovementType)).Inc()
	uc.logger.Debug("stock moved",
		zap.String("product_id", movement.ProductID),
		zap.String("type", string(movement.MovementType)),
		zap.Float64("before", movement.QuantityBefore),
		zap.Float64("after", movement.QuantityAfter),
	)
	return movement, nil
}

func optional(s string) *string {
	if s == "" || s == "unknown" {
		return nil
	}
	return &s
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
