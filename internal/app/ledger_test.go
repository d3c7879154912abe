package app

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-ledger/config"
	"github.com/fekuna/omnipos-ledger/internal/apperror"
	cashdto "github.com/fekuna/omnipos-ledger/internal/cash/dto"
	debtdto "github.com/fekuna/omnipos-ledger/internal/debt/dto"
	"github.com/fekuna/omnipos-ledger/internal/events"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	proddto "github.com/fekuna/omnipos-ledger/internal/product/dto"
	saledto "github.com/fekuna/omnipos-ledger/internal/sale/dto"
	"github.com/fekuna/omnipos-ledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) (*App, *events.MemoryPublisher) {
	t.Helper()
	pub := events.NewMemoryPublisher()
	a := New(&config.BusinessConfig{Currency: "MT", Timezone: "UTC"}, testutil.NewDB(t), pub, logger.NewNop())
	return a, pub
}

func (a *App) debtFor(t *testing.T, customerID string, items ...debtdto.DebtItemInput) *model.Debt {
	t.Helper()
	d, err := a.Debts.CreateDebt(context.Background(), &debtdto.CreateDebtInput{CustomerID: customerID, Items: items, UserID: "cashier"})
	require.NoError(t, err)
	return d
}

func (a *App) payOff(t *testing.T, d *model.Debt, method string) *model.Sale {
	t.Helper()
	res, err := a.Debts.RecordPayment(context.Background(), &debtdto.RecordPaymentInput{
		DebtID: d.ID, Amount: d.Outstanding(), PaymentMethod: method, UserID: "cashier",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Sale)
	return res.Sale
}

func TestStockRoundTripsThroughPendingDebt(t *testing.T) {
	a, _ := newApp(t)
	c := testutil.SeedCustomer(t, a.DB, "Ana")
	rice := testutil.SeedProduct(t, a.DB, "RICE", "50", "70", 12.5)
	oil := testutil.SeedProduct(t, a.DB, "OIL", "80", "100", 3)

	d := a.debtFor(t, c.ID,
		debtdto.DebtItemInput{ProductID: rice.ID, Quantity: 2.75},
		debtdto.DebtItemInput{ProductID: oil.ID, Quantity: 3},
	)
	assert.Equal(t, 9.75, testutil.Stock(t, a.DB, rice.ID))
	assert.Equal(t, 0.0, testutil.Stock(t, a.DB, oil.ID))

	require.NoError(t, a.Debts.RemoveDebt(context.Background(), d.ID, "manager"))
	assert.Equal(t, 12.5, testutil.Stock(t, a.DB, rice.ID))
	assert.Equal(t, 3.0, testutil.Stock(t, a.DB, oil.ID))
}

func TestVoidingSettledSaleDoesNotCreditStock(t *testing.T) {
	a, pub := newApp(t)
	c := testutil.SeedCustomer(t, a.DB, "Ana")
	p := testutil.SeedProduct(t, a.DB, "FLOUR", "5", "10", 10)

	d := a.debtFor(t, c.ID, debtdto.DebtItemInput{ProductID: p.ID, Quantity: 4})
	afterDebt := testutil.Stock(t, a.DB, p.ID)
	s := a.payOff(t, d, "cash")
	assert.Equal(t, afterDebt, testutil.Stock(t, a.DB, p.ID))

	_, err := a.Sales.VoidSale(context.Background(), &saledto.VoidSaleInput{SaleID: s.ID, Reason: "returned", UserID: "manager"})
	require.NoError(t, err)
	assert.Equal(t, afterDebt, testutil.Stock(t, a.DB, p.ID))

	assert.Equal(t, []string{events.DebtCreated, events.DebtSettled, events.SaleVoided}, pub.Types())
}

func TestVoidingDirectSaleRestoresEachLine(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	x := testutil.SeedProduct(t, a.DB, "X", "1", "2", 5)
	y := testutil.SeedProduct(t, a.DB, "Y", "1", "2", 2.5)

	s, err := a.Sales.CreateSale(ctx, &saledto.CreateSaleInput{
		UserID:        "cashier",
		Items:         []saledto.SaleItemInput{{ProductID: x.ID, Quantity: 5}, {ProductID: y.ID, Quantity: 0.75}},
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	_, err = a.Sales.VoidSale(ctx, &saledto.VoidSaleInput{SaleID: s.ID, Reason: "error", UserID: "manager"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, testutil.Stock(t, a.DB, x.ID))
	assert.Equal(t, 2.5, testutil.Stock(t, a.DB, y.ID))

	_, err = a.Sales.VoidSale(ctx, &saledto.VoidSaleInput{SaleID: s.ID, Reason: "error", UserID: "manager"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyVoided)
}

func TestSettlementTriggersExactlyOnce(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	c := testutil.SeedCustomer(t, a.DB, "Ana")
	p := testutil.SeedProduct(t, a.DB, "MILK", "5", "10", 10)
	d := a.debtFor(t, c.ID, debtdto.DebtItemInput{ProductID: p.ID, Quantity: 5})

	pay := func(amount string) (*debtdto.PaymentResult, error) {
		return a.Debts.RecordPayment(ctx, &debtdto.RecordPaymentInput{DebtID: d.ID, Amount: testutil.Dec(amount), PaymentMethod: "cash", UserID: "cashier"})
	}

	first, err := pay("20")
	require.NoError(t, err)
	assert.Nil(t, first.Sale)
	second, err := pay("30")
	require.NoError(t, err)
	require.NotNil(t, second.Sale)
	assert.Equal(t, model.DebtSettled, second.Debt.Status)

	_, err = pay("1")
	assert.ErrorIs(t, err, apperror.ErrAlreadySettled)
	assert.Equal(t, 1, testutil.Count(t, a.DB, `SELECT count(*) FROM sales WHERE origin = 'debt_settled'`))
}

func TestOverpaymentLeavesDebtUntouched(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	c := testutil.SeedCustomer(t, a.DB, "Ana")
	p := testutil.SeedProduct(t, a.DB, "TEA", "1", "10", 10)
	d := a.debtFor(t, c.ID, debtdto.DebtItemInput{ProductID: p.ID, Quantity: 1})

	_, err := a.Debts.RecordPayment(ctx, &debtdto.RecordPaymentInput{DebtID: d.ID, Amount: testutil.Dec("10.02"), PaymentMethod: "cash"})
	require.ErrorIs(t, err, apperror.ErrValidation)

	got, err := a.Debts.GetDebt(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.IsZero())
	assert.Equal(t, model.DebtPending, got.Status)
}

func TestAvailableSalesAfterWithdrawals(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, a.DB, "TV", "600", "1000", 1)

	_, err := a.Sales.CreateSale(ctx, &saledto.CreateSaleInput{
		UserID: "cashier", Items: []saledto.SaleItemInput{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: "cash", AmountReceived: testutil.Dec("1000"),
	})
	require.NoError(t, err)
	month := model.MonthOf(time.Now(), a.Location)

	withdraw := func(amount string) {
		w, err := a.Cash.RequestWithdrawal(ctx, &cashdto.RequestWithdrawalInput{UserID: "cashier", Amount: testutil.Dec(amount), Origin: model.WithdrawalFromSales})
		require.NoError(t, err)
		_, err = a.Cash.ApproveWithdrawal(ctx, &cashdto.ApproveWithdrawalInput{ID: w.ID, ApproverID: "manager"})
		require.NoError(t, err)
	}

	withdraw("300")
	avail, err := a.Reports.AvailableSales(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, "700.00", avail.StringFixed(2))

	withdraw("800")
	avail, err = a.Reports.AvailableSales(ctx, month)
	require.NoError(t, err)
	assert.Equal(t, "0.00", avail.StringFixed(2))
}

func TestProfitKeepsCostSnapshot(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	c := testutil.SeedCustomer(t, a.DB, "Ana")
	p := testutil.SeedProduct(t, a.DB, "SOAP", "5", "10", 10)

	_, err := a.Sales.CreateSale(ctx, &saledto.CreateSaleInput{
		UserID: "cashier", Items: []saledto.SaleItemInput{{ProductID: p.ID, Quantity: 2}}, PaymentMethod: "card",
	})
	require.NoError(t, err)
	d := a.debtFor(t, c.ID, debtdto.DebtItemInput{ProductID: p.ID, Quantity: 1})

	_, err = a.Products.UpdateProduct(ctx, &proddto.UpdateProductInput{
		ID: p.ID, Code: p.Code, Name: p.Name, CostPrice: testutil.Dec("8"), SalePrice: p.SalePrice, MinStock: p.MinStock,
	})
	require.NoError(t, err)
	// settled after the cost change, still priced at the debt's cost
	a.payOff(t, d, "cash")

	profit, err := a.Reports.GrossProfit(ctx, model.DayOf(time.Now(), a.Location))
	require.NoError(t, err)
	assert.Equal(t, "15.00", profit.StringFixed(2))
}

func TestRemovingSettledDebtAfterVoidKeepsStock(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()
	c := testutil.SeedCustomer(t, a.DB, "Ana")
	p := testutil.SeedProduct(t, a.DB, "CORN", "2", "4", 8)

	d := a.debtFor(t, c.ID, debtdto.DebtItemInput{ProductID: p.ID, Quantity: 3})
	s := a.payOff(t, d, "mpesa")
	_, err := a.Sales.VoidSale(ctx, &saledto.VoidSaleInput{SaleID: s.ID, Reason: "duplicate", UserID: "manager"})
	require.NoError(t, err)
	before := testutil.Stock(t, a.DB, p.ID)

	require.NoError(t, a.Debts.RemoveDebt(ctx, d.ID, "manager"))
	assert.Equal(t, before, testutil.Stock(t, a.DB, p.ID))
	assert.Equal(t, 5.0, before)
}

func TestFailedOperationLeavesNoPartialState(t *testing.T) {
	a, _ := newApp(t)
	c := testutil.SeedCustomer(t, a.DB, "Ana")
	plenty := testutil.SeedProduct(t, a.DB, "A", "1", "2", 10)
	scarce := testutil.SeedProduct(t, a.DB, "B", "1", "2", 1)

	_, err := a.Debts.CreateDebt(context.Background(), &debtdto.CreateDebtInput{
		CustomerID: c.ID,
		Items:      []debtdto.DebtItemInput{{ProductID: plenty.ID, Quantity: 5}, {ProductID: scarce.ID, Quantity: 2}},
	})
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)

	assert.Equal(t, 10.0, testutil.Stock(t, a.DB, plenty.ID))
	assert.Equal(t, 0, testutil.Count(t, a.DB, `SELECT count(*) FROM debts`))
	assert.Equal(t, 0, testutil.Count(t, a.DB, `SELECT count(*) FROM debt_items`))
	assert.Equal(t, 0, testutil.Count(t, a.DB, `SELECT count(*) FROM stock_movements`))
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	a := New(&config.BusinessConfig{Timezone: "Mars/Olympus"}, testutil.NewDB(t), nil, logger.NewNop())
	assert.Equal(t, time.UTC, a.Location)
}
