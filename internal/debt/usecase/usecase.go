package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/debt"
	"github.com/fekuna/omnipos-ledger/internal/debt/dto"
	"github.com/fekuna/omnipos-ledger/internal/events"
	"github.com/fekuna/omnipos-ledger/internal/inventory"
	invdto "github.com/fekuna/omnipos-ledger/internal/inventory/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/metrics"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceType = "debt"

type debtUseCase struct {
	repo      debt.Repository
	customers debt.CustomerFinder
	products  debt.ProductFinder
	ledger    inventory.Ledger
	settler   debt.Settler
	tx        database.Transactor
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewDebtUseCase(
	repo debt.Repository,
	customers debt.CustomerFinder,
	products debt.ProductFinder,
	ledger inventory.Ledger,
	settler debt.Settler,
	tx database.Transactor,
	publisher events.Publisher,
	log logger.ZapLogger,
) debt.UseCase {
	return &debtUseCase{
		repo:      repo,
		customers: customers,
		products:  products,
		ledger:    ledger,
		settler:   settler,
		tx:        tx,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *debtUseCase) CreateDebt(ctx context.Context, input *dto.CreateDebtInput) (*model.Debt, error) {
	if len(input.Items) == 0 {
		return nil, apperror.Validation("debt needs at least one item")
	}
	for i, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, apperror.Validation("item %d: quantity must be positive", i)
		}
		if it.UnitPrice.IsNegative() {
			return nil, apperror.Validation("item %d: unit price cannot be negative", i)
		}
	}

	var d *model.Debt
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := uc.customers.FindByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if c == nil {
			return &apperror.ValidationError{Err: apperror.NotFound("customer", input.CustomerID)}
		}

		id := uuid.New().String()
		items := make([]model.DebtItem, 0, len(input.Items))
		for _, in := range input.Items {
			p, err := uc.products.FindByID(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return &apperror.ValidationError{Err: apperror.NotFound("product", in.ProductID)}
			}
			if !p.IsActive {
				return apperror.Validation("product %s is inactive", p.Code)
			}

			qty := model.RoundQuantity(in.Quantity)
			if _, err := uc.ledger.Decrement(ctx, &invdto.StockChangeInput{
				ProductID:     p.ID,
				Quantity:      qty,
				MovementType:  model.MovementDebtCreated,
				ReferenceType: referenceType,
				ReferenceID:   id,
				UserID:        input.UserID,
			}); err != nil {
				return err
			}

			price := in.UnitPrice
			if price.IsZero() {
				price = p.SalePrice
			}
			items = append(items, model.DebtItem{
				ID:            uuid.New().String(),
				ProductID:     p.ID,
				Quantity:      qty,
				UnitPrice:     price,
				UnitCostPrice: p.CostPrice,
				Subtotal:      model.LineSubtotal(price, qty),
				WeightKg:      in.WeightKg,
			})
		}

		d, err = model.NewDebt(id, c.ID, input.UserID, strings.TrimSpace(input.Note), items, time.Now().UTC())
		if err != nil {
			return apperror.Validation("%v", err)
		}
		return uc.repo.Create(ctx, d)
	})
	if err != nil {
		uc.logger.Error("create debt rolled back", zap.String("customer_id", input.CustomerID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("debt created",
		zap.String("debt_id", d.ID),
		zap.String("customer_id", d.CustomerID),
		zap.String("total", d.Total.StringFixed(2)),
	)
	events.Notify(ctx, uc.publisher, uc.logger, events.DebtCreated, d.ID, d)
	return d, nil
}

func (uc *debtUseCase) RecordPayment(ctx context.Context, input *dto.RecordPaymentInput) (*dto.PaymentResult, error) {
	amount := model.RoundMoney(input.Amount)
	if !amount.IsPositive() {
		return nil, apperror.Validation("payment amount must be positive")
	}
	if strings.TrimSpace(input.PaymentMethod) == "" {
		return nil, apperror.Validation("payment method is required")
	}

	result := &dto.PaymentResult{}
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := uc.repo.FindByID(ctx, input.DebtID)
		if err != nil {
			return err
		}
		if d == nil {
			return apperror.NotFound("debt", input.DebtID)
		}
		if d.Status == model.DebtSettled {
			return apperror.Invalid(apperror.ErrAlreadySettled, "debt %s", d.ID)
		}

		outstanding := d.Outstanding()
		if amount.GreaterThan(outstanding.Add(model.Epsilon)) {
			return apperror.Validation("payment %s exceeds outstanding balance %s",
				amount.StringFixed(2), outstanding.StringFixed(2))
		}

		now := time.Now().UTC()
		payment := &model.DebtPayment{
			ID:            uuid.New().String(),
			DebtID:        d.ID,
			Amount:        amount,
			PaymentMethod: strings.TrimSpace(input.PaymentMethod),
			UserID:        input.UserID,
			PaidAt:        now,
		}
		if err := uc.repo.InsertPayment(ctx, payment); err != nil {
			return err
		}

		version := d.Version
		d.AmountPaid, d.Status = d.ApplyPayment(amount)
		d.UpdatedAt = now
		if err := d.Validate(); err != nil {
			return apperror.Validation("%v", err)
		}
		if err := uc.repo.UpdatePayment(ctx, d, version); err != nil {
			return err
		}
		d.Payments = append(d.Payments, *payment)

		result.Debt = d
		result.Payment = payment

		if d.Status == model.DebtSettled {
			sale, err := uc.settler.Materialize(ctx, d, payment)
			if err != nil {
				return err
			}
			result.Sale = sale
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("record payment rolled back", zap.String("debt_id", input.DebtID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("debt payment recorded",
		zap.String("debt_id", result.Debt.ID),
		zap.String("amount", result.Payment.Amount.StringFixed(2)),
		zap.String("amount_paid", result.Debt.AmountPaid.StringFixed(2)),
		zap.String("status", string(result.Debt.Status)),
	)
	if result.Sale != nil {
		metrics.DebtsSettledTotal.Inc()
		events.Notify(ctx, uc.publisher, uc.logger, events.DebtSettled, result.Debt.ID, map[string]interface{}{
			"debt_id": result.Debt.ID,
			"sale_id": result.Sale.ID,
			"total":   result.Debt.Total,
		})
	}
	return result, nil
}

func (uc *debtUseCase) RemoveDebt(ctx context.Context, id, userID string) error {
	var removed *model.Debt
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		d, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if d == nil {
			return &apperror.ValidationError{Err: apperror.NotFound("debt", id)}
		}

		// A settled debt's goods are accounted for by its sale.
		if d.Status == model.DebtPending {
			for _, it := range d.Items {
				if _, err := uc.ledger.Increment(ctx, &invdto.StockChangeInput{
					ProductID:     it.ProductID,
					Quantity:      it.Quantity,
					MovementType:  model.MovementDebtRemoved,
					ReferenceType: referenceType,
					ReferenceID:   d.ID,
					UserID:        userID,
				}); err != nil {
					return err
				}
			}
		}

		removed = d
		return uc.repo.Delete(ctx, d.ID)
	})
	if err != nil {
		uc.logger.Error("remove debt rolled back", zap.String("debt_id", id), zap.Error(err))
		return err
	}

	uc.logger.Info("debt removed",
		zap.String("debt_id", removed.ID),
		zap.String("status", string(removed.Status)),
		zap.Bool("stock_restored", removed.Status == model.DebtPending),
	)
	events.Notify(ctx, uc.publisher, uc.logger, events.DebtRemoved, removed.ID, map[string]interface{}{
		"debt_id": removed.ID,
		"status":  removed.Status,
		"user_id": userID,
	})
	return nil
}

func (uc *debtUseCase) GetDebt(ctx context.Context, id string) (*model.Debt, error) {
	d, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, apperror.NotFound("debt", id)
	}
	return d, nil
}

func (uc *debtUseCase) ListDebts(ctx context.Context, filters *dto.DebtFilters) ([]model.Debt, int, error) {
	if filters == nil {
		filters = &dto.DebtFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *debtUseCase) ListPayments(ctx context.Context, debtID string) ([]model.DebtPayment, error) {
	if _, err := uc.GetDebt(ctx, debtID); err != nil {
		return nil, err
	}
	return uc.repo.ListPayments(ctx, debtID)
}
