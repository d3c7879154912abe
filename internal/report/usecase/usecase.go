package usecase

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/report"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type reportUseCase struct {
	repo   report.Repository
	logger logger.ZapLogger
}

func NewReportUseCase(repo report.Repository, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *reportUseCase) GrossSales(ctx context.Context, p model.Period) (decimal.Decimal, error) {
	v, err := uc.repo.SumSales(ctx, p)
	if err != nil {
		return decimal.Zero, err
	}
	return model.RoundMoney(v), nil
}

func (uc *reportUseCase) GrossProfit(ctx context.Context, p model.Period) (decimal.Decimal, error) {
	v, err := uc.repo.SumProfit(ctx, p)
	if err != nil {
		return decimal.Zero, err
	}
	return model.RoundMoney(v), nil
}

func (uc *reportUseCase) CompletedWithdrawals(ctx context.Context, origin model.WithdrawalOrigin, p model.Period) (decimal.Decimal, error) {
	v, err := uc.repo.SumCompletedWithdrawals(ctx, origin, p)
	if err != nil {
		return decimal.Zero, err
	}
	return model.RoundMoney(v), nil
}

func (uc *reportUseCase) AvailableSales(ctx context.Context, p model.Period) (decimal.Decimal, error) {
	gross, err := uc.GrossSales(ctx, p)
	if err != nil {
		return decimal.Zero, err
	}
	withdrawn, err := uc.CompletedWithdrawals(ctx, model.WithdrawalFromSales, p)
	if err != nil {
		return decimal.Zero, err
	}
	return available(gross, withdrawn), nil
}

func (uc *reportUseCase) AvailableProfit(ctx context.Context, p model.Period) (decimal.Decimal, error) {
	gross, err := uc.GrossProfit(ctx, p)
	if err != nil {
		return decimal.Zero, err
	}
	withdrawn, err := uc.CompletedWithdrawals(ctx, model.WithdrawalFromProfit, p)
	if err != nil {
		return decimal.Zero, err
	}
	return available(gross, withdrawn), nil
}

func (uc *reportUseCase) CashSummary(ctx context.Context, p model.Period) (*model.CashSummary, error) {
	s := &model.CashSummary{Period: p}

	var err error
	if s.GrossSales, err = uc.GrossSales(ctx, p); err != nil {
		return nil, err
	}
	if s.GrossProfit, err = uc.GrossProfit(ctx, p); err != nil {
		return nil, err
	}
	if s.SalesWithdrawals, err = uc.CompletedWithdrawals(ctx, model.WithdrawalFromSales, p); err != nil {
		return nil, err
	}
	if s.ProfitWithdrawals, err = uc.CompletedWithdrawals(ctx, model.WithdrawalFromProfit, p); err != nil {
		return nil, err
	}
	s.AvailableSales = available(s.GrossSales, s.SalesWithdrawals)
	s.AvailableProfit = available(s.GrossProfit, s.ProfitWithdrawals)

	uc.logger.Debug("cash summary",
		zap.String("period", string(p.Kind)),
		zap.Time("start", p.Start),
		zap.String("gross_sales", s.GrossSales.StringFixed(2)),
		zap.String("available_sales", s.AvailableSales.StringFixed(2)),
	)
	return s, nil
}

func (uc *reportUseCase) InventoryValueAtCost(ctx context.Context) (decimal.Decimal, error) {
	v, err := uc.InventoryValuation(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return v.AtCost, nil
}

func (uc *reportUseCase) InventoryValueAtSalePrice(ctx context.Context) (decimal.Decimal, error) {
	v, err := uc.InventoryValuation(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return v.AtSalePrice, nil
}

func (uc *reportUseCase) InventoryValuation(ctx context.Context) (*model.InventoryValuation, error) {
	v, err := uc.repo.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}
	return &model.InventoryValuation{
		AtCost:      model.RoundMoney(v.AtCost),
		AtSalePrice: model.RoundMoney(v.AtSalePrice),
	}, nil
}

// available is gross minus withdrawn, clamped at zero.
func available(gross, withdrawn decimal.Decimal) decimal.Decimal {
	v := gross.Sub(withdrawn)
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
