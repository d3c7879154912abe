// Package settlement turns a debt that has just been paid off into the
// equivalent sale record.
package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errNoTx = errors.New("no transaction in context")

// SaleWriter persists a sale with its items.
type SaleWriter interface {
	Create(ctx context.Context, sale *model.Sale) error
}

type Materializer struct {
	sales  SaleWriter
	now    func() time.Time
	logger logger.ZapLogger
}

func NewMaterializer(sales SaleWriter, log logger.ZapLogger) *Materializer {
	return &Materializer{
		sales:  sales,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log,
	}
}

// Materialize writes the debt_settled sale for debt. It must run inside the
// transaction that settled the debt, and it never touches stock: the debt
// took the goods out when it was created.
func (m *Materializer) Materialize(ctx context.Context, debt *model.Debt, last *model.DebtPayment) (*model.Sale, error) {
	if !database.InTx(ctx) {
		return nil, apperror.Persistence("materialize debt "+debt.ID, errNoTx)
	}
	if debt.Status != model.DebtSettled {
		return nil, apperror.Validation("debt %s is %s, not settled", debt.ID, debt.Status)
	}
	if last == nil {
		return nil, apperror.Validation("debt %s has no payment to settle with", debt.ID)
	}
	if len(debt.Items) == 0 {
		return nil, apperror.Validation("debt %s has no items", debt.ID)
	}

	debtID := debt.ID
	s := &model.Sale{
		ID:             uuid.New().String(),
		UserID:         last.UserID,
		Total:          debt.Total,
		PaymentMethod:  last.PaymentMethod,
		AmountReceived: debt.Total,
		Change:         decimal.Zero,
		SaleDate:       m.now(),
		Status:         model.SaleActive,
		Origin:         model.OriginDebtSettled,
		DebtID:         &debtID,
		OriginalAmount: decimal.NewNullDecimal(debt.OriginalAmount),
		DiscountAmount: decimal.NewNullDecimal(debt.DiscountAmount),
	}

	s.Items = make([]model.SaleItem, 0, len(debt.Items))
	for _, it := range debt.Items {
		s.Items = append(s.Items, model.SaleItem{
			ID:            uuid.New().String(),
			SaleID:        s.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			UnitCostPrice: it.UnitCostPrice,
			Subtotal:      it.Subtotal,
			WeightKg:      it.WeightKg,
		})
	}

	if err := m.sales.Create(ctx, s); err != nil {
		return nil, err
	}

	m.logger.Info("debt settled into sale",
		zap.String("debt_id", debt.ID),
		zap.String("sale_id", s.ID),
		zap.String("total", s.Total.StringFixed(2)),
		zap.String("payment_method", s.PaymentMethod),
	)
	return s, nil
}
