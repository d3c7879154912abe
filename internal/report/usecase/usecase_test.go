package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/report"
	"github.com/fekuna/omnipos-ledger/internal/report/repository"
	"github.com/fekuna/omnipos-ledger/internal/testutil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march = model.MonthOf(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), time.UTC)

func newReport(t *testing.T) (report.UseCase, *sqlx.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewReportUseCase(repository.NewSQLiteRepository(db), logger.NewNop()), db
}

type line struct {
	productID string
	qty       float64
	price     string
	cost      string
	removed   bool
}

func seedSale(t *testing.T, db *sqlx.DB, at time.Time, status model.SaleStatus, lines ...line) string {
	t.Helper()
	id := uuid.New().String()
	total := testutil.Dec("0")
	for _, l := range lines {
		if !l.removed {
			total = total.Add(model.LineSubtotal(testutil.Dec(l.price), l.qty))
		}
	}
	_, err := db.Exec(`
        INSERT INTO sales (id, user_id, total, payment_method, amount_received, change_given, sale_date, status, origin)
        VALUES (?, 'u1', ?, 'cash', ?, 0, ?, ?, 'direct_sale')`,
		id, total, total, at.UTC(), status)
	require.NoError(t, err)

	for _, l := range lines {
		var itemStatus interface{}
		if l.removed {
			itemStatus = model.SaleItemRemoved
		}
		_, err := db.Exec(`
            INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, unit_cost_price, subtotal, status)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), id, l.productID, l.qty, testutil.Dec(l.price), testutil.Dec(l.cost),
			model.LineSubtotal(testutil.Dec(l.price), l.qty), itemStatus)
		require.NoError(t, err)
	}
	return id
}

func TestAvailableSalesClampsAtZero(t *testing.T) {
	uc, db := newReport(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "RICE", "50", "100", 0)

	seedSale(t, db, march.Start.Add(36*time.Hour), model.SaleActive, line{productID: p.ID, qty: 6, price: "100", cost: "50"})
	seedSale(t, db, march.Start.Add(10*24*time.Hour), model.SaleClosed, line{productID: p.ID, qty: 4, price: "100", cost: "50"})

	gross, err := uc.GrossSales(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", gross.StringFixed(2))

	testutil.SeedWithdrawal(t, db, model.WithdrawalFromSales, "300", model.WithdrawalCompleted, march.Start.Add(48*time.Hour))
	avail, err := uc.AvailableSales(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "700.00", avail.StringFixed(2))

	testutil.SeedWithdrawal(t, db, model.WithdrawalFromSales, "800", model.WithdrawalCompleted, march.Start.Add(72*time.Hour))
	avail, err = uc.AvailableSales(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, "0.00", avail.StringFixed(2))
}

func TestOnlyCompletedWithdrawalsOfTheOriginCount(t *testing.T) {
	uc, db := newReport(t)
	ctx := context.Background()
	inMarch := march.Start.Add(5 * 24 * time.Hour)

	testutil.SeedWithdrawal(t, db, model.WithdrawalFromSales, "100", model.WithdrawalCompleted, inMarch)
	testutil.SeedWithdrawal(t, db, model.WithdrawalFromSales, "40", model.WithdrawalPending, inMarch)
	testutil.SeedWithdrawal(t, db, model.WithdrawalFromProfit, "25", model.WithdrawalCompleted, inMarch)
	testutil.SeedWithdrawal(t, db, model.WithdrawalFromSales, "7", model.WithdrawalCompleted, march.End)

	sales, err := uc.CompletedWithdrawals(ctx, model.WithdrawalFromSales, march)
	require.NoError(t, err)
	assert.Equal(t, "100.00", sales.StringFixed(2))

	profit, err := uc.CompletedWithdrawals(ctx, model.WithdrawalFromProfit, march)
	require.NoError(t, err)
	assert.Equal(t, "25.00", profit.StringFixed(2))
}

func TestGrossProfitUsesSnapshotCost(t *testing.T) {
	uc, db := newReport(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "OIL", "5", "10", 0)
	day := model.DayOf(march.Start.Add(2*24*time.Hour), time.UTC)

	seedSale(t, db, day.Start.Add(time.Hour), model.SaleActive,
		line{productID: p.ID, qty: 3, price: "10", cost: "5"},
		line{productID: p.ID, qty: 1, price: "10", cost: "5", removed: true},
	)
	seedSale(t, db, day.Start.Add(2*time.Hour), model.SaleVoided, line{productID: p.ID, qty: 10, price: "10", cost: "5"})

	_, err := db.Exec(`UPDATE products SET cost_price = 8 WHERE id = ?`, p.ID)
	require.NoError(t, err)

	profit, err := uc.GrossProfit(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "15.00", profit.StringFixed(2))

	gross, err := uc.GrossSales(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, "30.00", gross.StringFixed(2))
}

func TestCashSummary(t *testing.T) {
	uc, db := newReport(t)
	p := testutil.SeedProduct(t, db, "TEA", "2", "5", 0)
	at := march.Start.Add(20 * 24 * time.Hour)

	seedSale(t, db, at, model.SaleActive, line{productID: p.ID, qty: 10, price: "5", cost: "2"})
	testutil.SeedWithdrawal(t, db, model.WithdrawalFromSales, "20", model.WithdrawalCompleted, at)
	testutil.SeedWithdrawal(t, db, model.WithdrawalFromProfit, "40", model.WithdrawalCompleted, at)

	s, err := uc.CashSummary(context.Background(), march)
	require.NoError(t, err)
	assert.Equal(t, march, s.Period)
	assert.Equal(t, "50.00", s.GrossSales.StringFixed(2))
	assert.Equal(t, "30.00", s.GrossProfit.StringFixed(2))
	assert.Equal(t, "30.00", s.AvailableSales.StringFixed(2))
	assert.Equal(t, "0.00", s.AvailableProfit.StringFixed(2))

	profit, err := uc.AvailableProfit(context.Background(), march)
	require.NoError(t, err)
	assert.True(t, profit.IsZero())

	empty, err := uc.CashSummary(context.Background(), model.MonthOf(march.End, time.UTC))
	require.NoError(t, err)
	assert.True(t, empty.GrossSales.IsZero())
}

func TestInventoryValuationSkipsInactiveProducts(t *testing.T) {
	uc, db := newReport(t)
	ctx := context.Background()
	testutil.SeedProduct(t, db, "A", "2.5", "4", 10)
	testutil.SeedProduct(t, db, "B", "10", "15", 0.5)
	gone := testutil.SeedProduct(t, db, "C", "100", "200", 3)
	_, err := db.Exec(`UPDATE products SET is_active = 0 WHERE id = ?`, gone.ID)
	require.NoError(t, err)

	atCost, err := uc.InventoryValueAtCost(ctx)
	require.NoError(t, err)
	assert.Equal(t, "30.00", atCost.StringFixed(2))

	atPrice, err := uc.InventoryValueAtSalePrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, "47.50", atPrice.StringFixed(2))
}
