package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/auth"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/sale"
	"github.com/fekuna/omnipos-ledger/internal/sale/dto"
	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type SaleItemRequest struct {
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	WeightKg  float64 `json:"weight_kg"`
}

type CreateSaleRequest struct {
	Items          []SaleItemRequest `json:"items"`
	PaymentMethod  string            `json:"payment_method"`
	AmountReceived decimal.Decimal   `json:"amount_received"`
	ExternalRef    string            `json:"external_ref,omitempty"`
}

type GetSaleRequest struct {
	ID string `json:"id"`
}

type ListSalesRequest struct {
	Status    string     `json:"status"`
	Origin    string     `json:"origin"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Page      int32      `json:"page"`
	PageSize  int32      `json:"page_size"`
}

type VoidSaleRequest struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type RemoveSaleItemRequest struct {
	SaleID string `json:"sale_id"`
	ItemID string `json:"item_id"`
}

type SaleResponse struct {
	Sale *model.Sale `json:"sale"`
}

type ListSalesResponse struct {
	Sales    []model.Sale `json:"sales"`
	Total    int32        `json:"total"`
	Page     int32        `json:"page"`
	PageSize int32        `json:"page_size"`
}

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SaleHandler) CreateSale(ctx context.Context, req *CreateSaleRequest) (*SaleResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	items := make([]dto.SaleItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity, WeightKg: it.WeightKg}
	}

	s, err := h.uc.CreateSale(ctx, &dto.CreateSaleInput{
		UserID:         userID,
		Items:          items,
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: req.AmountReceived,
		ExternalRef:    req.ExternalRef,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to create sale", err)
		return nil, grpcjson.Error(err)
	}
	return &SaleResponse{Sale: s}, nil
}

func (h *SaleHandler) GetSale(ctx context.Context, req *GetSaleRequest) (*SaleResponse, error) {
	s, err := h.uc.GetSale(ctx, req.ID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &SaleResponse{Sale: s}, nil
}

func (h *SaleHandler) ListSales(ctx context.Context, req *ListSalesRequest) (*ListSalesResponse, error) {
	sales, count, err := h.uc.ListSales(ctx, &dto.SaleFilters{
		Status:    model.SaleStatus(req.Status),
		Origin:    model.SaleOrigin(req.Origin),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Page:      int(req.Page),
		PageSize:  int(req.PageSize),
	})
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ListSalesResponse{
		Sales:    sales,
		Total:    int32(count),
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (h *SaleHandler) VoidSale(ctx context.Context, req *VoidSaleRequest) (*SaleResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	s, err := h.uc.VoidSale(ctx, &dto.VoidSaleInput{SaleID: req.ID, Reason: req.Reason, UserID: userID})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to void sale", err, zap.String("sale_id", req.ID))
		return nil, grpcjson.Error(err)
	}
	return &SaleResponse{Sale: s}, nil
}

func (h *SaleHandler) DeleteSale(ctx context.Context, req *GetSaleRequest) (*emptypb.Empty, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	if err := h.uc.DeleteSale(ctx, req.ID, userID); err != nil {
		grpcjson.LogFailure(h.logger, "failed to delete sale", err, zap.String("sale_id", req.ID))
		return nil, grpcjson.Error(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *SaleHandler) RemoveSaleItem(ctx context.Context, req *RemoveSaleItemRequest) (*SaleResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	s, err := h.uc.RemoveSaleItem(ctx, &dto.RemoveSaleItemInput{SaleID: req.SaleID, ItemID: req.ItemID, UserID: userID})
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &SaleResponse{Sale: s}, nil
}
