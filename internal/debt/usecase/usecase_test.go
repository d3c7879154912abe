package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	custrepo "github.com/fekuna/omnipos-ledger/internal/customer/repository"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/debt"
	"github.com/fekuna/omnipos-ledger/internal/debt/dto"
	"github.com/fekuna/omnipos-ledger/internal/debt/repository"
	"github.com/fekuna/omnipos-ledger/internal/events"
	invrepo "github.com/fekuna/omnipos-ledger/internal/inventory/repository"
	invuc "github.com/fekuna/omnipos-ledger/internal/inventory/usecase"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	prodrepo "github.com/fekuna/omnipos-ledger/internal/product/repository"
	salerepo "github.com/fekuna/omnipos-ledger/internal/sale/repository"
	"github.com/fekuna/omnipos-ledger/internal/settlement"
	"github.com/fekuna/omnipos-ledger/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc        debt.UseCase
	db        *sqlx.DB
	sales     *salerepo.SQLiteRepository
	publisher *events.MemoryPublisher
	customer  *model.Customer
}

func newFixture(t *testing.T, settler debt.Settler) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	tx := database.NewTxManager(db)
	log := logger.NewNop()
	sales := salerepo.NewSQLiteRepository(db)
	if settler == nil {
		settler = settlement.NewMaterializer(sales, log)
	}
	pub := events.NewMemoryPublisher()
	uc := NewDebtUseCase(
		repository.NewSQLiteRepository(db),
		custrepo.NewSQLiteRepository(db),
		prodrepo.NewSQLiteRepository(db),
		invuc.NewInventoryUseCase(invrepo.NewSQLiteRepository(db), tx, log),
		settler,
		tx,
		pub,
		log,
	)
	return &fixture{
		uc:        uc,
		db:        db,
		sales:     sales,
		publisher: pub,
		customer:  testutil.SeedCustomer(t, db, "Ana"),
	}
}

func (f *fixture) createDebt(t *testing.T, items ...dto.DebtItemInput) *model.Debt {
	t.Helper()
	d, err := f.uc.CreateDebt(context.Background(), &dto.CreateDebtInput{
		CustomerID: f.customer.ID,
		Items:      items,
		Note:       "end of month",
		UserID:     "cashier",
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) pay(amount, method string, debtID string) (*dto.PaymentResult, error) {
	return f.uc.RecordPayment(context.Background(), &dto.RecordPaymentInput{
		DebtID:        debtID,
		Amount:        testutil.Dec(amount),
		PaymentMethod: method,
		UserID:        "cashier",
	})
}

type failingSettler struct{}

func (failingSettler) Materialize(context.Context, *model.Debt, *model.DebtPayment) (*model.Sale, error) {
	return nil, apperror.Persistence("insert sale", errors.New("disk full"))
}

func TestCreateDebtDecrementsStockAndSnapshotsCost(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "RICE", "50", "70", 10)

	d := f.createDebt(t,
		dto.DebtItemInput{ProductID: p.ID, Quantity: 2},
		dto.DebtItemInput{ProductID: p.ID, Quantity: 0.5, UnitPrice: testutil.Dec("60"), WeightKg: 0.5},
	)

	assert.Equal(t, model.DebtPending, d.Status)
	assert.True(t, d.Total.Equal(testutil.Dec("170")), d.Total.String())
	assert.True(t, d.AmountPaid.IsZero())
	assert.Equal(t, 7.5, testutil.Stock(t, f.db, p.ID))

	got, err := f.uc.GetDebt(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].UnitPrice.Equal(testutil.Dec("70")), "zero price defaults to the sale price")
	assert.True(t, got.Items[1].UnitCostPrice.Equal(testutil.Dec("50")))
	assert.Equal(t, "end of month", got.Note)
	assert.Equal(t, []string{events.DebtCreated}, f.publisher.Types())
}

func TestCreateDebtRejections(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "OIL", "80", "100", 3)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *dto.CreateDebtInput
		kind  error
	}{
		{"no items", &dto.CreateDebtInput{CustomerID: f.customer.ID}, apperror.ErrValidation},
		{"missing customer", &dto.CreateDebtInput{CustomerID: "nobody", Items: []dto.DebtItemInput{{ProductID: p.ID, Quantity: 1}}}, apperror.ErrValidation},
		{"missing product", &dto.CreateDebtInput{CustomerID: f.customer.ID, Items: []dto.DebtItemInput{{ProductID: "nope", Quantity: 1}}}, apperror.ErrNotFound},
		{"negative quantity", &dto.CreateDebtInput{CustomerID: f.customer.ID, Items: []dto.DebtItemInput{{ProductID: p.ID, Quantity: -1}}}, apperror.ErrValidation},
		{"over stock", &dto.CreateDebtInput{CustomerID: f.customer.ID, Items: []dto.DebtItemInput{{ProductID: p.ID, Quantity: 2}, {ProductID: p.ID, Quantity: 2}}}, apperror.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateDebt(ctx, tt.input)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	// nothing partial is left behind
	assert.Equal(t, 3.0, testutil.Stock(t, f.db, p.ID))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM debts`))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM stock_movements`))
}

func TestPartialPaymentKeepsDebtPending(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "SUGAR", "40", "50", 5)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 2})

	res, err := f.pay("30", "cash", d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DebtPending, res.Debt.Status)
	assert.True(t, res.Debt.AmountPaid.Equal(testutil.Dec("30")))
	assert.Nil(t, res.Sale)
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM sales`))
}

func TestSettlementHappensExactlyOnce(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "FLOUR", "5", "10", 10)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 3})

	_, err := f.pay("10", "cash", d.ID)
	require.NoError(t, err)
	res, err := f.pay("20", "mpesa", d.ID)
	require.NoError(t, err)

	require.NotNil(t, res.Sale)
	assert.Equal(t, model.DebtSettled, res.Debt.Status)
	assert.Equal(t, model.OriginDebtSettled, res.Sale.Origin)
	assert.Equal(t, "mpesa", res.Sale.PaymentMethod)
	assert.True(t, res.Sale.Total.Equal(testutil.Dec("30")))

	_, err = f.pay("1", "cash", d.ID)
	assert.ErrorIs(t, err, apperror.ErrAlreadySettled)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Equal(t, 1, testutil.Count(t, f.db, `SELECT count(*) FROM sales WHERE debt_id = ?`, d.ID))
	assert.Equal(t, 2, testutil.Count(t, f.db, `SELECT count(*) FROM debt_payments WHERE debt_id = ?`, d.ID))
	assert.Equal(t, 7.0, testutil.Stock(t, f.db, p.ID))
	assert.Equal(t, []string{events.DebtCreated, events.DebtSettled}, f.publisher.Types())
}

func TestPaymentWithinToleranceSettles(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "SALT", "1", "3.33", 10)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 3})

	res, err := f.pay("9.98", "cash", d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DebtSettled, res.Debt.Status)
	require.NotNil(t, res.Sale)
}

func TestOverpaymentIsRejectedWithoutSideEffects(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "TEA", "2", "5", 10)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 4})

	_, err := f.pay("5", "cash", d.ID)
	require.NoError(t, err)

	_, err = f.pay("15.02", "cash", d.ID)
	require.ErrorIs(t, err, apperror.ErrValidation)

	got, err := f.uc.GetDebt(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.Equal(testutil.Dec("5")))
	assert.Equal(t, model.DebtPending, got.Status)
	assert.Len(t, got.Payments, 1)
}

func TestPaymentValidation(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "MILK", "2", "5", 10)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 1})

	_, err := f.pay("0", "cash", d.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = f.pay("-1", "cash", d.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	// rounds to 0.00
	_, err = f.pay("0.004", "cash", d.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.NotErrorIs(t, err, apperror.ErrPersistence)
	_, err = f.pay("1", " ", d.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	_, err = f.pay("1", "cash", "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM debt_payments`))
}

func TestFailedSettlementRollsBackPayment(t *testing.T) {
	f := newFixture(t, failingSettler{})
	p := testutil.SeedProduct(t, f.db, "CORN", "5", "10", 4)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 2})

	_, err := f.pay("20", "cash", d.ID)
	require.ErrorIs(t, err, apperror.ErrPersistence)

	got, err := f.uc.GetDebt(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DebtPending, got.Status)
	assert.True(t, got.AmountPaid.IsZero())
	assert.Empty(t, got.Payments)
	assert.Equal(t, int64(1), got.Version)
}

func TestConcurrentPaymentsSettleOnce(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "BREAD", "1", "2", 20)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 10})

	var wg sync.WaitGroup
	var mu sync.Mutex
	settled := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.pay("20", "cash", d.ID)
			if err != nil {
				assert.ErrorIs(t, err, apperror.ErrAlreadySettled)
				return
			}
			if res.Sale != nil {
				mu.Lock()
				settled++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, settled)
	assert.Equal(t, 1, testutil.Count(t, f.db, `SELECT count(*) FROM sales WHERE debt_id = ?`, d.ID))
	assert.Equal(t, 1, testutil.Count(t, f.db, `SELECT count(*) FROM debt_payments WHERE debt_id = ?`, d.ID))
}

func TestRemovePendingDebtRestoresStock(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "BEAN", "3", "6", 9.75)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 2.25}, dto.DebtItemInput{ProductID: p.ID, Quantity: 1})
	_, err := f.pay("5", "cash", d.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveDebt(ctx, d.ID, "manager"))

	assert.Equal(t, 9.75, testutil.Stock(t, f.db, p.ID))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM debts`))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM debt_items`))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM debt_payments`))

	err = f.uc.RemoveDebt(ctx, d.ID, "manager")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestRemoveSettledDebtKeepsStock(t *testing.T) {
	f := newFixture(t, nil)
	p := testutil.SeedProduct(t, f.db, "PEA", "3", "6", 10)
	d := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 4})
	_, err := f.pay("24", "cash", d.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveDebt(context.Background(), d.ID, "manager"))
	assert.Equal(t, 6.0, testutil.Stock(t, f.db, p.ID))
	assert.Equal(t, 1, testutil.Count(t, f.db, `SELECT count(*) FROM sales`), "the mirrored sale survives")
}

func TestListDebtsAndPayments(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "GUM", "1", "2", 10)
	open := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 1})
	closed := f.createDebt(t, dto.DebtItemInput{ProductID: p.ID, Quantity: 1})
	_, err := f.pay("1", "cash", closed.ID)
	require.NoError(t, err)
	_, err = f.pay("1", "card", closed.ID)
	require.NoError(t, err)

	debts, total, err := f.uc.ListDebts(ctx, &dto.DebtFilters{CustomerID: f.customer.ID, Status: model.DebtPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, debts, 1)
	assert.Equal(t, open.ID, debts[0].ID)

	payments, err := f.uc.ListPayments(ctx, closed.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, "cash", payments[0].PaymentMethod)
	assert.Equal(t, "card", payments[1].PaymentMethod)

	_, err = f.uc.ListPayments(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
