package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReports struct {
	period model.Period
	err    error
}

func (s *stubReports) GrossSales(context.Context, model.Period) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubReports) GrossProfit(context.Context, model.Period) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubReports) CompletedWithdrawals(context.Context, model.WithdrawalOrigin, model.Period) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubReports) AvailableSales(context.Context, model.Period) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubReports) AvailableProfit(context.Context, model.Period) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubReports) InventoryValueAtCost(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (s *stubReports) InventoryValueAtSalePrice(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (s *stubReports) CashSummary(_ context.Context, p model.Period) (*model.CashSummary, error) {
	s.period = p
	if s.err != nil {
		return nil, s.err
	}
	return &model.CashSummary{Period: p, GrossSales: decimal.RequireFromString("1000"), AvailableSales: decimal.RequireFromString("700")}, nil
}

func (s *stubReports) InventoryValuation(context.Context) (*model.InventoryValuation, error) {
	return &model.InventoryValuation{AtCost: decimal.RequireFromString("30"), AtSalePrice: decimal.RequireFromString("47.5")}, nil
}

func newRouter(uc *stubReports) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewReportHandler(uc, time.UTC, "MT", logger.NewNop()).Register(r)
	return r
}

func TestCashSummaryEndpoint(t *testing.T) {
	uc := &stubReports{}
	r := newRouter(uc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/cash?period=month&date=2026-03-15", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Currency string `json:"currency"`
		Summary  struct {
			GrossSales     string `json:"gross_sales"`
			AvailableSales string `json:"available_sales"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MT", body.Currency)
	assert.Equal(t, "700", body.Summary.AvailableSales)

	assert.Equal(t, model.PeriodMonth, uc.period.Kind)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), uc.period.Start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), uc.period.End)
}

func TestCashSummaryEndpointErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
		err   error
		code  int
	}{
		{"bad period", "/reports/cash?period=year", nil, http.StatusBadRequest},
		{"bad date", "/reports/cash?date=15-03-2026", nil, http.StatusBadRequest},
		{"storage failure", "/reports/cash", errors.New("disk"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&stubReports{err: tt.err})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.query, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestInventoryEndpoint(t *testing.T) {
	r := newRouter(&stubReports{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/inventory", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"at_sale_price":"47.5"`)
}
