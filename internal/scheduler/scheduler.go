// Package scheduler runs the periodic ledger jobs: the hourly low-stock scan
// and the end-of-day cash summary.
package scheduler

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/go-co-op/gocron"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type LowStockLister interface {
	ListLowStock(ctx context.Context) ([]model.Product, error)
}

type SummaryReporter interface {
	CashSummary(ctx context.Context, period model.Period) (*model.CashSummary, error)
}

type Config struct {
	// DailySummaryAt is a "15:04" time in Location.
	DailySummaryAt string
	Location       *time.Location
	Currency       string
}

type Scheduler struct {
	cron     *gocron.Scheduler
	products LowStockLister
	reports  SummaryReporter
	cfg      Config
	now      func() time.Time
	logger   logger.ZapLogger
}

func New(cfg Config, products LowStockLister, reports SummaryReporter, log logger.ZapLogger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		cron:     gocron.NewScheduler(cfg.Location),
		products: products,
		reports:  reports,
		cfg:      cfg,
		now:      time.Now,
		logger:   log,
	}
}

// Start registers the jobs and runs them in the background until Stop.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.Every(1).Hour().Do(func() { s.LowStockScan(ctx) }); err != nil {
		return err
	}
	if _, err := s.cron.Every(1).Day().At(s.cfg.DailySummaryAt).Do(func() { s.DailySummary(ctx) }); err != nil {
		return err
	}
	s.cron.StartAsync()
	s.logger.Info("Scheduler started", zap.String("daily_summary_at", s.cfg.DailySummaryAt))
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// LowStockScan logs every active product at or below its minimum and
// returns how many were found.
func (s *Scheduler) LowStockScan(ctx context.Context) int {
	products, err := s.products.ListLowStock(ctx)
	if err != nil {
		s.logger.Error("low stock scan failed", zap.Error(err))
		return 0
	}
	for _, p := range products {
		s.logger.Warn("low stock",
			zap.String("product_id", p.ID),
			zap.String("code", p.Code),
			zap.Float64("stock", p.Stock),
			zap.Float64("min_stock", p.MinStock),
		)
	}
	return len(products)
}

// DailySummary logs today's cash summary.
func (s *Scheduler) DailySummary(ctx context.Context) *model.CashSummary {
	day := model.DayOf(s.now(), s.cfg.Location)
	summary, err := s.reports.CashSummary(ctx, day)
	if err != nil {
		s.logger.Error("daily summary failed", zap.Error(err))
		return nil
	}
	s.logger.Info("daily cash summary",
		zap.Time("day", day.Start),
		zap.String("currency", s.cfg.Currency),
		money("gross_sales", summary.GrossSales),
		money("gross_profit", summary.GrossProfit),
		money("available_sales", summary.AvailableSales),
		money("available_profit", summary.AvailableProfit),
	)
	return summary
}

func money(key string, d decimal.Decimal) zap.Field {
	return zap.String(key, d.StringFixed(2))
}
