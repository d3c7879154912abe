package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/product"
	"github.com/fekuna/omnipos-ledger/internal/product/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo   product.Repository
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validateProduct(input.Code, input.Name, input.CostPrice.IsNegative() || input.SalePrice.IsNegative(), input.MinStock); err != nil {
		return nil, err
	}
	if input.InitialStock < 0 {
		return nil, apperror.Validation("initial stock cannot be negative")
	}

	code := strings.TrimSpace(input.Code)
	unique, err := uc.repo.IsCodeUnique(ctx, code, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, apperror.Validation("product code %q already exists", code)
	}

	now := time.Now().UTC()
	unit := input.Unit
	if unit == "" {
		unit = defaultUnit(input.SoldByWeight)
	}

	p := &model.Product{
		BaseModel:    model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		Code:         code,
		Name:         strings.TrimSpace(input.Name),
		CostPrice:    model.RoundMoney(input.CostPrice),
		SalePrice:    model.RoundMoney(input.SalePrice),
		Stock:        model.RoundQuantity(input.InitialStock),
		MinStock:     model.RoundQuantity(input.MinStock),
		IsActive:     true,
		SoldByWeight: input.SoldByWeight,
		Unit:         unit,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.String("code", p.Code))
	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validateProduct(input.Code, input.Name, input.CostPrice.IsNegative() || input.SalePrice.IsNegative(), input.MinStock); err != nil {
		return nil, err
	}

	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if p.Code != code {
		unique, err := uc.repo.IsCodeUnique(ctx, code, p.ID)
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, apperror.Validation("product code %q already exists", code)
		}
	}

	p.Code = code
	p.Name = strings.TrimSpace(input.Name)
	p.CostPrice = model.RoundMoney(input.CostPrice)
	p.SalePrice = model.RoundMoney(input.SalePrice)
	p.MinStock = model.RoundQuantity(input.MinStock)
	p.SoldByWeight = input.SoldByWeight
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	if input.Unit != "" {
		p.Unit = input.Unit
	}
	p.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *productUseCase) DeactivateProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return p, nil
	}

	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("product deactivated", zap.String("product_id", p.ID))
	return p, nil
}

func (uc *productUseCase) ListLowStock(ctx context.Context) ([]model.Product, error) {
	return uc.repo.FindLowStock(ctx)
}

func validateProduct(code, name string, negativePrice bool, minStock float64) error {
	if strings.TrimSpace(code) == "" {
		return apperror.Validation("product code is required")
	}
	if strings.TrimSpace(name) == "" {
		return apperror.Validation("product name is required")
	}
	if negativePrice {
		return apperror.Validation("prices cannot be negative")
	}
	if minStock < 0 {
		return apperror.Validation("minimum stock cannot be negative")
	}
	return nil
}

func defaultUnit(soldByWeight bool) string {
	if soldByWeight {
		return "kg"
	}
	return "un"
}
