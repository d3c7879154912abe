package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/product"
	"github.com/fekuna/omnipos-ledger/internal/product/dto"
	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
)

type CreateProductRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	InitialStock float64         `json:"initial_stock"`
	MinStock     float64         `json:"min_stock"`
	SoldByWeight bool            `json:"sold_by_weight"`
	Unit         string          `json:"unit"`
}

type UpdateProductRequest struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	MinStock     float64         `json:"min_stock"`
	SoldByWeight bool            `json:"sold_by_weight"`
	Unit         string          `json:"unit"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

type GetProductRequest struct {
	ID string `json:"id"`
}

type ListProductsRequest struct {
	ActiveOnly bool   `json:"active_only"`
	Query      string `json:"query"`
	SortBy     string `json:"sort_by"`
	SortOrder  string `json:"sort_order"`
	Page       int32  `json:"page"`
	PageSize   int32  `json:"page_size"`
}

type ProductResponse struct {
	Product *model.Product `json:"product"`
}

type ListProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int32           `json:"total"`
	Page     int32           `json:"page"`
	PageSize int32           `json:"page_size"`
}

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	p, err := h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		Code:         req.Code,
		Name:         req.Name,
		CostPrice:    req.CostPrice,
		SalePrice:    req.SalePrice,
		InitialStock: req.InitialStock,
		MinStock:     req.MinStock,
		SoldByWeight: req.SoldByWeight,
		Unit:         req.Unit,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to create product", err)
		return nil, grpcjson.Error(err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *GetProductRequest) (*ProductResponse, error) {
	p, err := h.uc.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	isActive := (*bool)(nil)
	if req.ActiveOnly {
		b := true
		isActive = &b
	}

	products, count, err := h.uc.ListProducts(ctx, &dto.ProductFilters{
		IsActive:    isActive,
		SearchQuery: req.Query,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Page:        int(req.Page),
		PageSize:    int(req.PageSize),
	})
	if err != nil {
		return nil, grpcjson.Error(err)
	}

	return &ListProductsResponse{
		Products: products,
		Total:    int32(count),
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*ProductResponse, error) {
	p, err := h.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:           req.ID,
		Code:         req.Code,
		Name:         req.Name,
		CostPrice:    req.CostPrice,
		SalePrice:    req.SalePrice,
		MinStock:     req.MinStock,
		SoldByWeight: req.SoldByWeight,
		Unit:         req.Unit,
		IsActive:     req.IsActive,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to update product", err, zap.String("product_id", req.ID))
		return nil, grpcjson.Error(err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) DeactivateProduct(ctx context.Context, req *GetProductRequest) (*ProductResponse, error) {
	p, err := h.uc.DeactivateProduct(ctx, req.ID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ProductResponse{Product: p}, nil
}

func (h *ProductHandler) ListLowStock(ctx context.Context, _ *emptypb.Empty) (*ListProductsResponse, error) {
	products, err := h.uc.ListLowStock(ctx)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ListProductsResponse{Products: products, Total: int32(len(products))}, nil
}
