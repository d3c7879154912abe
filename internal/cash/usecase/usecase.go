package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/cash"
	"github.com/fekuna/omnipos-ledger/internal/cash/dto"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/events"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/metrics"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cashUseCase struct {
	repo      cash.Repository
	tx        database.Transactor
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewCashUseCase(repo cash.Repository, tx database.Transactor, publisher events.Publisher, log logger.ZapLogger) cash.UseCase {
	return &cashUseCase{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *cashUseCase) RequestWithdrawal(ctx context.Context, input *dto.RequestWithdrawalInput) (*model.CashWithdrawal, error) {
	amount := model.RoundMoney(input.Amount)
	if !amount.IsPositive() {
		return nil, apperror.Validation("withdrawal amount must be positive")
	}
	if !input.Origin.Valid() {
		return nil, apperror.Validation("invalid withdrawal origin %q", input.Origin)
	}

	w := &model.CashWithdrawal{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Amount:      amount,
		Reason:      strings.TrimSpace(input.Reason),
		Origin:      input.Origin,
		Status:      model.WithdrawalPending,
		RequestedAt: time.Now().UTC(),
	}
	if err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		return uc.repo.CreateWithdrawal(ctx, w)
	}); err != nil {
		return nil, err
	}

	uc.logger.Info("withdrawal requested",
		zap.String("withdrawal_id", w.ID),
		zap.String("origin", string(w.Origin)),
		zap.String("amount", w.Amount.StringFixed(2)),
	)
	return w, nil
}

func (uc *cashUseCase) ApproveWithdrawal(ctx context.Context, input *dto.ApproveWithdrawalInput) (*model.CashWithdrawal, error) {
	var w *model.CashWithdrawal
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		w, err = uc.repo.FindWithdrawal(ctx, input.ID)
		if err != nil {
			return err
		}
		if w == nil {
			return apperror.NotFound("withdrawal", input.ID)
		}
		if w.Status == model.WithdrawalCompleted {
			return apperror.Invalid(apperror.ErrAlreadyCompleted, "withdrawal %s", w.ID)
		}

		now := time.Now().UTC()
		if err := uc.repo.ApproveWithdrawal(ctx, w.ID, input.ApproverID, now); err != nil {
			return err
		}
		w.Status = model.WithdrawalCompleted
		w.ApproverID = &input.ApproverID
		w.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("withdrawal approved",
		zap.String("withdrawal_id", w.ID),
		zap.String("approver_id", input.ApproverID),
	)
	return w, nil
}

func (uc *cashUseCase) ListWithdrawals(ctx context.Context, filters *dto.WithdrawalFilters) ([]model.CashWithdrawal, int, error) {
	if filters == nil {
		filters = &dto.WithdrawalFilters{}
	}
	return uc.repo.ListWithdrawals(ctx, filters)
}

// CloseCash reconciles every unclosed sale against what the cashier counted,
// per payment method.
func (uc *cashUseCase) CloseCash(ctx context.Context, input *dto.CloseCashInput) (*model.CashClosing, error) {
	declared := make(map[string]decimal.Decimal, len(input.Declared))
	for method, amount := range input.Declared {
		if amount.IsNegative() {
			return nil, apperror.Validation("declared amount for %s cannot be negative", method)
		}
		key := strings.ToLower(strings.TrimSpace(method))
		declared[key] = declared[key].Add(amount)
	}

	c := &model.CashClosing{
		ID:       uuid.New().String(),
		UserID:   input.UserID,
		ClosedAt: time.Now().UTC(),
		Note:     strings.TrimSpace(input.Note),
	}
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		sales, err := uc.repo.UnclosedSales(ctx)
		if err != nil {
			return err
		}
		if len(sales) == 0 {
			return apperror.Validation("no unclosed sales to reconcile")
		}

		system := map[string]decimal.Decimal{}
		for _, s := range sales {
			key := strings.ToLower(s.PaymentMethod)
			system[key] = system[key].Add(s.Total)
			c.SaleIDs = append(c.SaleIDs, s.ID)
		}

		withdrawals, err := uc.repo.UnclosedWithdrawals(ctx)
		if err != nil {
			return err
		}
		c.WithdrawalsValue = decimal.Zero
		for _, w := range withdrawals {
			c.WithdrawalsValue = c.WithdrawalsValue.Add(w.Amount)
			c.WithdrawalIDs = append(c.WithdrawalIDs, w.ID)
		}

		c.Methods = breakdown(c.ID, system, declared)
		sold := decimal.Zero
		c.DeclaredValue = decimal.Zero
		for _, m := range c.Methods {
			sold = sold.Add(m.SystemValue)
			c.DeclaredValue = c.DeclaredValue.Add(m.DeclaredValue)
		}
		// expected till excludes approved withdrawals
		c.SystemValue = model.RoundMoney(sold.Sub(c.WithdrawalsValue))
		c.Difference = c.DeclaredValue.Sub(c.SystemValue)

		return uc.repo.CreateClosing(ctx, c)
	})
	if err != nil {
		uc.logger.Error("cash closing rolled back", zap.Error(err))
		return nil, err
	}

	diff, _ := c.Difference.Float64()
	metrics.CashClosingDifference.Set(diff)
	uc.logger.Info("cash closed",
		zap.String("closing_id", c.ID),
		zap.Int("sales", len(c.SaleIDs)),
		zap.String("system_value", c.SystemValue.StringFixed(2)),
		zap.String("declared_value", c.DeclaredValue.StringFixed(2)),
		zap.String("withdrawals_value", c.WithdrawalsValue.StringFixed(2)),
		zap.String("difference", c.Difference.StringFixed(2)),
	)
	events.Notify(ctx, uc.publisher, uc.logger, events.CashClosed, c.ID, map[string]interface{}{
		"closing_id":     c.ID,
		"system_value":   c.SystemValue,
		"declared_value": c.DeclaredValue,
		"difference":     c.Difference,
		"withdrawals":    c.WithdrawalsValue,
		"sales":          len(c.SaleIDs),
	})
	return c, nil
}

func (uc *cashUseCase) GetClosing(ctx context.Context, id string) (*model.CashClosing, error) {
	c, err := uc.repo.FindClosing(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("cash closing", id)
	}
	return c, nil
}

func (uc *cashUseCase) ListClosings(ctx context.Context, filters *dto.ClosingFilters) ([]model.CashClosing, int, error) {
	if filters == nil {
		filters = &dto.ClosingFilters{}
	}
	return uc.repo.ListClosings(ctx, filters)
}

// breakdown has one row per method seen on either side, sorted by method.
func breakdown(closingID string, system, declared map[string]decimal.Decimal) []model.CashClosingMethod {
	seen := map[string]bool{}
	methods := []string{}
	for _, src := range []map[string]decimal.Decimal{system, declared} {
		for m := range src {
			if !seen[m] {
				seen[m] = true
				methods = append(methods, m)
			}
		}
	}
	sort.Strings(methods)

	out := make([]model.CashClosingMethod, 0, len(methods))
	for _, m := range methods {
		sys := model.RoundMoney(system[m])
		dec := model.RoundMoney(declared[m])
		out = append(out, model.CashClosingMethod{
			ClosingID:     closingID,
			PaymentMethod: m,
			SystemValue:   sys,
			DeclaredValue: dec,
			Difference:    dec.Sub(sys),
		})
	}
	return out
}
