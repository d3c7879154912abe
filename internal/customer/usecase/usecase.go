package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/customer"
	"github.com/fekuna/omnipos-ledger/internal/customer/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *customerUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	if err := validateCustomer(input.Name, input.DebtDiscount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &model.Customer{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         strings.TrimSpace(input.Name),
		TaxID:        input.TaxID,
		Phone:        input.Phone,
		Email:        input.Email,
		Address:      input.Address,
		IsSpecial:    input.IsSpecial,
		DebtDiscount: input.DebtDiscount,
	}

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *customerUseCase) GetCustomer(ctx context.Context, id string) (*model.Customer, error) {
	c, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("customer", id)
	}
	return c, nil
}

func (uc *customerUseCase) ListCustomers(ctx context.Context, filters *dto.CustomerFilters) ([]model.Customer, int, error) {
	if filters == nil {
		filters = &dto.CustomerFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *customerUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	if err := validateCustomer(input.Name, input.DebtDiscount); err != nil {
		return nil, err
	}

	c, err := uc.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(input.Name)
	c.TaxID = input.TaxID
	c.Phone = input.Phone
	c.Email = input.Email
	c.Address = input.Address
	c.IsSpecial = input.IsSpecial
	c.DebtDiscount = input.DebtDiscount
	c.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// The discount percentage is stored for older records only; it is range
// checked but never applied to a debt.
func validateCustomer(name string, discount decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return apperror.Validation("customer name is required")
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.Validation("debt discount must be between 0 and 100")
	}
	return nil
}
