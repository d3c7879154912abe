package handler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/auth"
	"github.com/fekuna/omnipos-ledger/internal/cash"
	"github.com/fekuna/omnipos-ledger/internal/cash/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type RequestWithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
	Origin string          `json:"origin"`
}

type ApproveWithdrawalRequest struct {
	ID string `json:"id"`
}

type ListWithdrawalsRequest struct {
	Status    string     `json:"status"`
	Origin    string     `json:"origin"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Page      int32      `json:"page"`
	PageSize  int32      `json:"page_size"`
}

type CloseCashRequest struct {
	Declared map[string]decimal.Decimal `json:"declared"`
	Note     string                     `json:"note"`
}

type GetClosingRequest struct {
	ID string `json:"id"`
}

type ListClosingsRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Page      int32      `json:"page"`
	PageSize  int32      `json:"page_size"`
}

type WithdrawalResponse struct {
	Withdrawal *model.CashWithdrawal `json:"withdrawal"`
}

type ListWithdrawalsResponse struct {
	Withdrawals []model.CashWithdrawal `json:"withdrawals"`
	Total       int32                  `json:"total"`
}

type ClosingResponse struct {
	Closing *model.CashClosing `json:"closing"`
}

type ListClosingsResponse struct {
	Closings []model.CashClosing `json:"closings"`
	Total    int32               `json:"total"`
}

type CashHandler struct {
	uc     cash.UseCase
	logger logger.ZapLogger
}

func NewCashHandler(uc cash.UseCase, log logger.ZapLogger) *CashHandler {
	return &CashHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CashHandler) RequestWithdrawal(ctx context.Context, req *RequestWithdrawalRequest) (*WithdrawalResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	w, err := h.uc.RequestWithdrawal(ctx, &dto.RequestWithdrawalInput{
		UserID: userID,
		Amount: req.Amount,
		Reason: req.Reason,
		Origin: model.WithdrawalOrigin(req.Origin),
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to request withdrawal", err)
		return nil, grpcjson.Error(err)
	}
	return &WithdrawalResponse{Withdrawal: w}, nil
}

func (h *CashHandler) ApproveWithdrawal(ctx context.Context, req *ApproveWithdrawalRequest) (*WithdrawalResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	w, err := h.uc.ApproveWithdrawal(ctx, &dto.ApproveWithdrawalInput{ID: req.ID, ApproverID: userID})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to approve withdrawal", err, zap.String("withdrawal_id", req.ID))
		return nil, grpcjson.Error(err)
	}
	return &WithdrawalResponse{Withdrawal: w}, nil
}

func (h *CashHandler) ListWithdrawals(ctx context.Context, req *ListWithdrawalsRequest) (*ListWithdrawalsResponse, error) {
	list, count, err := h.uc.ListWithdrawals(ctx, &dto.WithdrawalFilters{
		Status:    model.WithdrawalStatus(req.Status),
		Origin:    model.WithdrawalOrigin(req.Origin),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Page:      int(req.Page),
		PageSize:  int(req.PageSize),
	})
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ListWithdrawalsResponse{Withdrawals: list, Total: int32(count)}, nil
}

func (h *CashHandler) CloseCash(ctx context.Context, req *CloseCashRequest) (*ClosingResponse, error) {
	userID := auth.GetUserID(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing user")
	}

	c, err := h.uc.CloseCash(ctx, &dto.CloseCashInput{UserID: userID, Declared: req.Declared, Note: req.Note})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to close cash", err)
		return nil, grpcjson.Error(err)
	}
	return &ClosingResponse{Closing: c}, nil
}

func (h *CashHandler) GetClosing(ctx context.Context, req *GetClosingRequest) (*ClosingResponse, error) {
	c, err := h.uc.GetClosing(ctx, req.ID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ClosingResponse{Closing: c}, nil
}

func (h *CashHandler) ListClosings(ctx context.Context, req *ListClosingsRequest) (*ListClosingsResponse, error) {
	list, count, err := h.uc.ListClosings(ctx, &dto.ClosingFilters{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Page:      int(req.Page),
		PageSize:  int(req.PageSize),
	})
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ListClosingsResponse{Closings: list, Total: int32(count)}, nil
}
