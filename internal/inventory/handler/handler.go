package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/auth"
	"github.com/fekuna/omnipos-ledger/internal/inventory"
	"github.com/fekuna/omnipos-ledger/internal/inventory/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type GetProductStockRequest struct {
	ProductID string `json:"product_id"`
}

type ProductStockResponse struct {
	ProductID string  `json:"product_id"`
	Stock     float64 `json:"stock"`
	IsActive  bool    `json:"is_active"`
}

type AdjustInventoryRequest struct {
	ProductID      string  `json:"product_id"`
	QuantityChange float64 `json:"quantity_change"`
	Reason         string  `json:"reason"`
}

type MovementResponse struct {
	Movement *model.StockMovement `json:"movement"`
}

type ListMovementsRequest struct {
	ProductID     string `json:"product_id"`
	MovementType  string `json:"movement_type"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
	Page          int32  `json:"page"`
	PageSize      int32  `json:"page_size"`
}

type ListMovementsResponse struct {
	Movements []model.StockMovement `json:"movements"`
	Total     int32                 `json:"total"`
	Page      int32                 `json:"page"`
	PageSize  int32                 `json:"page_size"`
}

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) GetProductStock(ctx context.Context, req *GetProductStockRequest) (*ProductStockResponse, error) {
	ps, err := h.uc.GetProductStock(ctx, req.ProductID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ProductStockResponse{ProductID: ps.ProductID, Stock: ps.Stock, IsActive: ps.IsActive}, nil
}

func (h *InventoryHandler) AdjustInventory(ctx context.Context, req *AdjustInventoryRequest) (*MovementResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	m, err := h.uc.AdjustInventory(ctx, &dto.AdjustInventoryInput{
		ProductID:      req.ProductID,
		QuantityChange: req.QuantityChange,
		Reason:         req.Reason,
		UserID:         userID,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to adjust inventory", err, zap.String("product_id", req.ProductID))
		return nil, grpcjson.Error(err)
	}
	return &MovementResponse{Movement: m}, nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *ListMovementsRequest) (*ListMovementsResponse, error) {
	items, count, err := h.uc.ListMovements(ctx, &dto.MovementFilters{
		ProductID:     req.ProductID,
		MovementType:  model.MovementType(req.MovementType),
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		Page:          int(req.Page),
		PageSize:      int(req.PageSize),
	})
	if err != nil {
		return nil, grpcjson.Error(err)
	}

	return &ListMovementsResponse{
		Movements: items,
		Total:     int32(count),
		Page:      req.Page,
		PageSize:  req.PageSize,
	}, nil
}
