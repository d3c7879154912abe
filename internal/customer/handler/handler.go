package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/customer"
	"github.com/fekuna/omnipos-ledger/internal/customer/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CustomerRequest struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	TaxID        string          `json:"tax_id"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Address      string          `json:"address"`
	IsSpecial    bool            `json:"is_special"`
	DebtDiscount decimal.Decimal `json:"debt_discount"`
}

type GetCustomerRequest struct {
	ID string `json:"id"`
}

type ListCustomersRequest struct {
	Query       string `json:"query"`
	SpecialOnly bool   `json:"special_only"`
	Page        int32  `json:"page"`
	PageSize    int32  `json:"page_size"`
}

type CustomerResponse struct {
	Customer *model.Customer `json:"customer"`
}

type ListCustomersResponse struct {
	Customers []model.Customer `json:"customers"`
	Total     int32            `json:"total"`
}

type CustomerHandler struct {
	uc     customer.UseCase
	logger logger.ZapLogger
}

func NewCustomerHandler(uc customer.UseCase, log logger.ZapLogger) *CustomerHandler {
	return &CustomerHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CustomerHandler) CreateCustomer(ctx context.Context, req *CustomerRequest) (*CustomerResponse, error) {
	c, err := h.uc.CreateCustomer(ctx, &dto.CreateCustomerInput{
		Name:         req.Name,
		TaxID:        req.TaxID,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		IsSpecial:    req.IsSpecial,
		DebtDiscount: req.DebtDiscount,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to create customer", err)
		return nil, grpcjson.Error(err)
	}
	return &CustomerResponse{Customer: c}, nil
}

func (h *CustomerHandler) GetCustomer(ctx context.Context, req *GetCustomerRequest) (*CustomerResponse, error) {
	c, err := h.uc.GetCustomer(ctx, req.ID)
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &CustomerResponse{Customer: c}, nil
}

func (h *CustomerHandler) ListCustomers(ctx context.Context, req *ListCustomersRequest) (*ListCustomersResponse, error) {
	customers, count, err := h.uc.ListCustomers(ctx, &dto.CustomerFilters{
		SearchQuery: req.Query,
		SpecialOnly: req.SpecialOnly,
		Page:        int(req.Page),
		PageSize:    int(req.PageSize),
	})
	if err != nil {
		return nil, grpcjson.Error(err)
	}
	return &ListCustomersResponse{Customers: customers, Total: int32(count)}, nil
}

func (h *CustomerHandler) UpdateCustomer(ctx context.Context, req *CustomerRequest) (*CustomerResponse, error) {
	c, err := h.uc.UpdateCustomer(ctx, &dto.UpdateCustomerInput{
		ID:           req.ID,
		Name:         req.Name,
		TaxID:        req.TaxID,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		IsSpecial:    req.IsSpecial,
		DebtDiscount: req.DebtDiscount,
	})
	if err != nil {
		grpcjson.LogFailure(h.logger, "failed to update customer", err, zap.String("customer_id", req.ID))
		return nil, grpcjson.Error(err)
	}
	return &CustomerResponse{Customer: c}, nil
}
