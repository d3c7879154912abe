package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/events"
	"github.com/fekuna/omnipos-ledger/internal/inventory"
	invdto "github.com/fekuna/omnipos-ledger/internal/inventory/dto"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/metrics"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/sale"
	"github.com/fekuna/omnipos-ledger/internal/sale/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const referenceType = "sale"

// cash payments must cover the total and give change
var cashMethods = map[string]bool{"cash": true, "dinheiro": true, "numerario": true}

type saleUseCase struct {
	repo      sale.Repository
	products  sale.ProductFinder
	ledger    inventory.Ledger
	tx        database.Transactor
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewSaleUseCase(
	repo sale.Repository,
	products sale.ProductFinder,
	ledger inventory.Ledger,
	tx database.Transactor,
	publisher events.Publisher,
	log logger.ZapLogger,
) sale.UseCase {
	return &saleUseCase{
		repo:      repo,
		products:  products,
		ledger:    ledger,
		tx:        tx,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *saleUseCase) CreateSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.Validation("sale needs at least one item")
	}
	method := strings.ToLower(strings.TrimSpace(input.PaymentMethod))
	if method == "" {
		return nil, apperror.Validation("payment method is required")
	}
	for i, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, apperror.Validation("item %d: quantity must be positive", i)
		}
	}
	if input.AmountReceived.IsNegative() {
		return nil, apperror.Validation("amount received cannot be negative")
	}

	s := &model.Sale{
		ID:            uuid.New().String(),
		UserID:        input.UserID,
		PaymentMethod: method,
		SaleDate:      time.Now().UTC(),
		Status:        model.SaleActive,
		Origin:        model.OriginDirectSale,
	}
	ref := strings.TrimSpace(input.ExternalRef)
	if ref != "" {
		s.ExternalRef = &ref
	}

	var replayed bool
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if ref != "" {
			existing, err := uc.repo.FindByExternalRef(ctx, ref)
			if err != nil {
				return err
			}
			if existing != nil {
				s, replayed = existing, true
				return nil
			}
		}

		total := decimal.Zero
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
				MovementType:  model.MovementSale,
				ReferenceType: referenceType,
				ReferenceID:   s.ID,
				UserID:        input.UserID,
			}); err != nil {
				return err
			}

			item := model.SaleItem{
				ID:            uuid.New().String(),
				SaleID:        s.ID,
				ProductID:     p.ID,
				Quantity:      qty,
				UnitPrice:     p.SalePrice,
				UnitCostPrice: p.CostPrice,
				Subtotal:      model.LineSubtotal(p.SalePrice, qty),
				WeightKg:      in.WeightKg,
			}
			total = total.Add(item.Subtotal)
			s.Items = append(s.Items, item)
		}

		s.Total = model.RoundMoney(total)
		if cashMethods[method] {
			if input.AmountReceived.LessThan(s.Total) {
				return apperror.Validation("amount received %s is less than total %s",
					input.AmountReceived.StringFixed(2), s.Total.StringFixed(2))
			}
			s.AmountReceived = model.RoundMoney(input.AmountReceived)
			s.Change = s.AmountReceived.Sub(s.Total)
		} else {
			s.AmountReceived = s.Total
			s.Change = decimal.Zero
		}

		return uc.repo.Create(ctx, s)
	})
	if err != nil {
		uc.logger.Error("create sale rolled back", zap.Error(err))
		return nil, err
	}
	if replayed {
		uc.logger.Info("sale already recorded", zap.String("sale_id", s.ID), zap.String("external_ref", ref))
		return s, nil
	}

	uc.logger.Info("sale created",
		zap.String("sale_id", s.ID),
		zap.String("total", s.Total.StringFixed(2)),
		zap.String("payment_method", s.PaymentMethod),
	)
	events.Notify(ctx, uc.publisher, uc.logger, events.SaleCreated, s.ID, s)
	return s, nil
}

func (uc *saleUseCase) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperror.NotFound("sale", id)
	}
	return s, nil
}

func (uc *saleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	if filters == nil {
		filters = &dto.SaleFilters{}
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *saleUseCase) VoidSale(ctx context.Context, input *dto.VoidSaleInput) (*model.Sale, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperror.Validation("void reason is required")
	}

	var s *model.Sale
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		s, err = uc.GetSale(ctx, input.SaleID)
		if err != nil {
			return err
		}
		if s.Status == model.SaleVoided {
			return apperror.Invalid(apperror.ErrAlreadyVoided, "sale %s", s.ID)
		}

		if err := uc.restoreStock(ctx, s, model.MovementSaleVoided, input.UserID); err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := uc.repo.MarkVoided(ctx, s.ID, reason, input.UserID, now); err != nil {
			return err
		}
		s.Status = model.SaleVoided
		s.VoidReason = &reason
		s.VoidedBy = &input.UserID
		s.VoidedAt = &now
		return nil
	})
	if err != nil {
		uc.logger.Error("void sale rolled back", zap.String("sale_id", input.SaleID), zap.Error(err))
		return nil, err
	}

	metrics.SalesVoidedTotal.WithLabelValues(string(s.Origin)).Inc()
	uc.logger.Info("sale voided",
		zap.String("sale_id", s.ID),
		zap.String("origin", string(s.Origin)),
		zap.Bool("stock_restored", s.RestoresStock()),
	)
	events.Notify(ctx, uc.publisher, uc.logger, events.SaleVoided, s.ID, map[string]interface{}{
		"sale_id": s.ID,
		"origin":  s.Origin,
		"reason":  reason,
		"user_id": input.UserID,
	})
	return s, nil
}

func (uc *saleUseCase) DeleteSale(ctx context.Context, id, userID string) error {
	var s *model.Sale
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		s, err = uc.GetSale(ctx, id)
		if err != nil {
			return err
		}

		// a voided sale already gave its stock back
		if s.Status != model.SaleVoided {
			if err := uc.restoreStock(ctx, s, model.MovementSaleDeleted, userID); err != nil {
				return err
			}
		}
		return uc.repo.Delete(ctx, s.ID)
	})
	if err != nil {
		uc.logger.Error("delete sale rolled back", zap.String("sale_id", id), zap.Error(err))
		return err
	}

	if s.Status != model.SaleVoided {
		metrics.SalesVoidedTotal.WithLabelValues(string(s.Origin)).Inc()
	}
	uc.logger.Info("sale deleted", zap.String("sale_id", s.ID), zap.String("origin", string(s.Origin)))
	events.Notify(ctx, uc.publisher, uc.logger, events.SaleDeleted, s.ID, map[string]interface{}{
		"sale_id": s.ID,
		"origin":  s.Origin,
		"user_id": userID,
	})
	return nil
}

func (uc *saleUseCase) RemoveSaleItem(ctx context.Context, input *dto.RemoveSaleItemInput) (*model.Sale, error) {
	var s *model.Sale
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		s, err = uc.GetSale(ctx, input.SaleID)
		if err != nil {
			return err
		}
		if s.Status == model.SaleVoided {
			return apperror.Invalid(apperror.ErrAlreadyVoided, "sale %s", s.ID)
		}

		idx := -1
		for i := range s.Items {
			if s.Items[i].ID == input.ItemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperror.NotFound("sale item", input.ItemID)
		}
		item := &s.Items[idx]
		if item.IsRemoved() {
			return apperror.Validation("sale item %s already removed", item.ID)
		}

		if s.RestoresStock() {
			if _, err := uc.ledger.Increment(ctx, &invdto.StockChangeInput{
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				MovementType:  model.MovementItemRemoved,
				ReferenceType: "sale_item",
				ReferenceID:   item.ID,
				UserID:        input.UserID,
			}); err != nil {
				return err
			}
		}

		s.Total = model.RoundMoney(s.Total.Sub(item.Subtotal))
		if err := uc.repo.MarkItemRemoved(ctx, s.ID, item.ID, s.Total); err != nil {
			return err
		}
		removed := model.SaleItemRemoved
		item.Status = &removed
		return nil
	})
	if err != nil {
		uc.logger.Error("remove sale item rolled back",
			zap.String("sale_id", input.SaleID),
			zap.String("item_id", input.ItemID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.logger.Info("sale item removed",
		zap.String("sale_id", s.ID),
		zap.String("item_id", input.ItemID),
		zap.String("total", s.Total.StringFixed(2)),
	)
	return s, nil
}

// restoreStock returns every active line item to stock, unless the sale came
// from a settled debt.
func (uc *saleUseCase) restoreStock(ctx context.Context, s *model.Sale, movement model.MovementType, userID string) error {
	if !s.RestoresStock() {
		return nil
	}
	for _, it := range s.ActiveItems() {
		if _, err := uc.ledger.Increment(ctx, &invdto.StockChangeInput{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			MovementType:  movement,
			ReferenceType: referenceType,
			ReferenceID:   s.ID,
			UserID:        userID,
		}); err != nil {
			return err
		}
	}
	return nil
}
