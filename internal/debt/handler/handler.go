package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/auth"
	"github.com/fekuna/omnipos-ledger/internal/debt"
	"github.com/fekuna/omnipos-ledger/internal/debt/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type DebtItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  float64         `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	WeightKg  float64         `json:"weight_kg"`
}

type CreateDebtRequest struct {
	CustomerID string            `json:"customer_id"`
	Items      []DebtItemRequest `json:"items"`
	Note       string            `json:"note"`
}

type RecordPaymentRequest struct {
	DebtID        string          `json:"debt_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
}

type GetDebtRequest struct {
	ID string `json:"id"`
}

type ListDebtsRequest struct {
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	Page       int32  `json:"page"`
	PageSize   int32  `json:"page_size"`
}

type DebtResponse struct {
	Debt *model.Debt `json:"debt"`
}

type PaymentResponse struct {
	Debt    *model.Debt        `json:"debt"`
	Payment *model.DebtPayment `json:"payment"`
	Sale    *model.Sale        `json:"sale,omitempty"`
}

type ListDebtsResponse struct {
	Debts    []model.Debt `json:"debts"`
	Total    int32        `json:"total"`
	Page     int32        `json:"page"`
	PageSize int32        `json:"page_size"`
}

type ListPaymentsResponse struct {
	Payments []model.DebtPayment `json:"payments"`
}

type DebtHandler struct {
	uc     debt.UseCase
	logger logger.ZapLogger
}

func NewDebtHandler(uc debt.UseCase, log logger.ZapLogger) *DebtHandler {
	return &DebtHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *DebtHandler) CreateDebt(ctx context.Context, req *CreateDebtRequest) (*DebtResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	items := make([]dto.DebtItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = dto.DebtItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			WeightKg:  it.WeightKg,
		}
	}

	d, err := h.uc.CreateDebt(ctx, &dto.CreateDebtInput{
		CustomerID: req.CustomerID,
		Items:      items,
		Note:       req.Note,
		UserID:     userID,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to create debt", err, zap.String("customer_id", req.CustomerID))
		return nil, grpcjson.Error(err)
	}
	return &DebtResponse{Debt: d}, nil
}

func (h *DebtHandler) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*PaymentResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	res, err := h.uc.RecordPayment(ctx, &dto.RecordPaymentInput{
		DebtID:        req.DebtID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		UserID:        userID,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to record payment", err, zap.String("debt_id", req.DebtID))
		return nil, grpcjson.Error(err)
	}
	return &PaymentResponse{Debt: res.Debt, Payment: res.Payment, Sale: res.Sale}, nil
}

func (h *DebtHandler) RemoveDebt(ctx context.Context, req *GetDebtRequest) (*emptypb.Empty, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	if err := h.uc.RemoveDebt(ctx, req.ID, userID); err != nil {
		grpcjson.LogFailure(h.logger, "failed to remove debt", err, zap.String("debt_id", req.ID))
		return nil, grpcjson.Error(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *DebtHandler) GetDebt(ctx context.Context, req *GetDebtRequest) (*DebtResponse, error) {
	d, err := h.uc.GetDebt(ctx, req.ID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &DebtResponse{Debt: d}, nil
}

func (h *DebtHandler) ListDebts(ctx context.Context, req *ListDebtsRequest) (*ListDebtsResponse, error) {
	debts, count, err := h.uc.ListDebts(ctx, &dto.DebtFilters{
		CustomerID: req.CustomerID,
		Status:     model.DebtStatus(req.Status),
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ListDebtsResponse{
		Debts:    debts,
		Total:    int32(count),
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func (h *DebtHandler) ListPayments(ctx context.Context, req *GetDebtRequest) (*ListPaymentsResponse, error) {
	payments, err := h.uc.ListPayments(ctx, req.ID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ListPaymentsResponse{Payments: payments}, nil
}
