package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/events"
	invrepo "github.com/fekuna/omnipos-ledger/internal/inventory/repository"
	invuc "github.com/fekuna/omnipos-ledger/internal/inventory/usecase"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/model"
	prodrepo "github.com/fekuna/omnipos-ledger/internal/product/repository"
	"github.com/fekuna/omnipos-ledger/internal/sale"
	"github.com/fekuna/omnipos-ledger/internal/sale/dto"
	"github.com/fekuna/omnipos-ledger/internal/sale/repository"
	"github.com/fekuna/omnipos-ledger/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	uc        sale.UseCase
	repo      *repository.SQLiteRepository
	db        *sqlx.DB
	publisher *events.MemoryPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	tx := database.NewTxManager(db)
	log := logger.NewNop()
	repo := repository.NewSQLiteRepository(db)
	ledger := invuc.NewInventoryUseCase(invrepo.NewSQLiteRepository(db), tx, log)
	pub := events.NewMemoryPublisher()
	return &fixture{
		uc:        NewSaleUseCase(repo, prodrepo.NewSQLiteRepository(db), ledger, tx, pub, log),
		repo:      repo,
		db:        db,
		publisher: pub,
	}
}

func TestCreateSaleSnapshotsPricesAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	rice := testutil.SeedProduct(t, f.db, "RICE", "50", "70", 10)
	oil := testutil.SeedProduct(t, f.db, "OIL", "80", "100", 4)

	s, err := f.uc.CreateSale(ctx, &dto.CreateSaleInput{
		UserID: "cashier",
		Items: []dto.SaleItemInput{
			{ProductID: rice.ID, Quantity: 1.5, WeightKg: 1.5},
			{ProductID: oil.ID, Quantity: 2},
		},
		PaymentMethod:  "Dinheiro",
		AmountReceived: testutil.Dec("400"),
	})
	require.NoError(t, err)

	assert.Equal(t, model.SaleActive, s.Status)
	assert.Equal(t, model.OriginDirectSale, s.Origin)
	assert.Equal(t, "dinheiro", s.PaymentMethod)
	assert.True(t, s.Total.Equal(testutil.Dec("305")), s.Total.String())
	assert.True(t, s.Change.Equal(testutil.Dec("95")), s.Change.String())

	got, err := f.uc.GetSale(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].UnitCostPrice.Equal(testutil.Dec("50")))
	assert.True(t, got.Items[1].UnitPrice.Equal(testutil.Dec("100")))

	assert.Equal(t, 8.5, testutil.Stock(t, f.db, rice.ID))
	assert.Equal(t, 2.0, testutil.Stock(t, f.db, oil.ID))
	assert.Equal(t, []string{events.SaleCreated}, f.publisher.Types())
}

func TestCreateSaleNonCashReceivesExactTotal(t *testing.T) {
	f := newFixture(t)
	p := testutil.SeedProduct(t, f.db, "SOAP", "20", "35", 5)

	s, err := f.uc.CreateSale(context.Background(), &dto.CreateSaleInput{
		UserID:        "cashier",
		Items:         []dto.SaleItemInput{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: "mpesa",
	})
	require.NoError(t, err)
	assert.True(t, s.AmountReceived.Equal(s.Total))
	assert.True(t, s.Change.IsZero())
}

func TestCreateSaleRejections(t *testing.T) {
	f := newFixture(t)
	p := testutil.SeedProduct(t, f.db, "TEA", "10", "15", 2)

	tests := []struct {
		name  string
		input *dto.CreateSaleInput
		kind  error
	}{
		{"no items", &dto.CreateSaleInput{PaymentMethod: "cash"}, apperror.ErrValidation},
		{"no payment method", &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID, Quantity: 1}}}, apperror.ErrValidation},
		{"zero quantity", &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID}}, PaymentMethod: "cash"}, apperror.ErrValidation},
		{"unknown product", &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: "nope", Quantity: 1}}, PaymentMethod: "card"}, apperror.ErrNotFound},
		{"cash short", &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID, Quantity: 1}}, PaymentMethod: "cash", AmountReceived: testutil.Dec("10")}, apperror.ErrValidation},
		{"over stock", &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID, Quantity: 3}}, PaymentMethod: "card"}, apperror.ErrInsufficientStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateSale(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	assert.Equal(t, 2.0, testutil.Stock(t, f.db, p.ID))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM sales`))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM stock_movements`))
}

func TestCreateSaleRollsBackEarlierDecrements(t *testing.T) {
	f := newFixture(t)
	plenty := testutil.SeedProduct(t, f.db, "WATER", "5", "8", 10)
	scarce := testutil.SeedProduct(t, f.db, "JUICE", "9", "12", 1)

	_, err := f.uc.CreateSale(context.Background(), &dto.CreateSaleInput{
		Items:         []dto.SaleItemInput{{ProductID: plenty.ID, Quantity: 4}, {ProductID: scarce.ID, Quantity: 2}},
		PaymentMethod: "card",
	})
	require.ErrorIs(t, err, apperror.ErrInsufficientStock)

	assert.Equal(t, 10.0, testutil.Stock(t, f.db, plenty.ID))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM stock_movements`))
}

func TestVoidDirectSaleRestoresEveryLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, f.db, "A", "1", "2", 10)
	b := testutil.SeedProduct(t, f.db, "B", "1", "2", 3.25)

	s, err := f.uc.CreateSale(ctx, &dto.CreateSaleInput{
		UserID:        "cashier",
		Items:         []dto.SaleItemInput{{ProductID: a.ID, Quantity: 7}, {ProductID: b.ID, Quantity: 1.125}},
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	voided, err := f.uc.VoidSale(ctx, &dto.VoidSaleInput{SaleID: s.ID, Reason: "customer returned", UserID: "manager"})
	require.NoError(t, err)
	assert.Equal(t, model.SaleVoided, voided.Status)
	require.NotNil(t, voided.VoidReason)
	assert.Equal(t, "customer returned", *voided.VoidReason)

	assert.Equal(t, 10.0, testutil.Stock(t, f.db, a.ID))
	assert.Equal(t, 3.25, testutil.Stock(t, f.db, b.ID))

	stored, err := f.repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleVoided, stored.Status)
	require.NotNil(t, stored.VoidedBy)
	assert.Equal(t, "manager", *stored.VoidedBy)
}

func TestVoidSaleTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "EGG", "1", "2", 12)

	s, err := f.uc.CreateSale(ctx, &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID, Quantity: 6}}, PaymentMethod: "card"})
	require.NoError(t, err)

	_, err = f.uc.VoidSale(ctx, &dto.VoidSaleInput{SaleID: s.ID, Reason: "mistake"})
	require.NoError(t, err)

	_, err = f.uc.VoidSale(ctx, &dto.VoidSaleInput{SaleID: s.ID, Reason: "again"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyVoided)
	assert.Equal(t, 12.0, testutil.Stock(t, f.db, p.ID))
}

func TestVoidSaleValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.VoidSale(context.Background(), &dto.VoidSaleInput{SaleID: "missing", Reason: "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.uc.VoidSale(context.Background(), &dto.VoidSaleInput{SaleID: "missing", Reason: "  "})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

// debtSettledSale writes a mirrored sale straight through the repository;
// its goods left stock when the debt was created.
func debtSettledSale(t *testing.T, f *fixture, productID string, qty float64) *model.Sale {
	t.Helper()
	debtID := "debt-" + productID
	s := &model.Sale{
		ID:             "sale-" + productID,
		UserID:         "cashier",
		Total:          testutil.Dec("20"),
		PaymentMethod:  "cash",
		AmountReceived: testutil.Dec("20"),
		Status:         model.SaleActive,
		Origin:         model.OriginDebtSettled,
		DebtID:         &debtID,
		Items: []model.SaleItem{{
			ID: "item-" + productID, SaleID: "sale-" + productID, ProductID: productID,
			Quantity: qty, UnitPrice: testutil.Dec("10"), UnitCostPrice: testutil.Dec("5"), Subtotal: testutil.Dec("20"),
		}},
	}
	require.NoError(t, f.repo.Create(context.Background(), s))
	return s
}

func TestVoidSettledSaleLeavesStockAlone(t *testing.T) {
	f := newFixture(t)
	p := testutil.SeedProduct(t, f.db, "CORN", "5", "10", 8)
	s := debtSettledSale(t, f, p.ID, 2)

	_, err := f.uc.VoidSale(context.Background(), &dto.VoidSaleInput{SaleID: s.ID, Reason: "duplicate", UserID: "manager"})
	require.NoError(t, err)

	assert.Equal(t, 8.0, testutil.Stock(t, f.db, p.ID))
	assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM stock_movements`))
}

func TestDeleteSale(t *testing.T) {
	ctx := context.Background()

	t.Run("direct sale restores stock", func(t *testing.T) {
		f := newFixture(t)
		p := testutil.SeedProduct(t, f.db, "BEAN", "3", "6", 9)
		s, err := f.uc.CreateSale(ctx, &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID, Quantity: 4}}, PaymentMethod: "card"})
		require.NoError(t, err)

		require.NoError(t, f.uc.DeleteSale(ctx, s.ID, "admin"))
		assert.Equal(t, 9.0, testutil.Stock(t, f.db, p.ID))
		assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM sales`))
		assert.Equal(t, 0, testutil.Count(t, f.db, `SELECT count(*) FROM sale_items`))

		_, err = f.uc.GetSale(ctx, s.ID)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("voided sale is not restored twice", func(t *testing.T) {
		f := newFixture(t)
		p := testutil.SeedProduct(t, f.db, "PEA", "3", "6", 9)
		s, err := f.uc.CreateSale(ctx, &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID, Quantity: 4}}, PaymentMethod: "card"})
		require.NoError(t, err)
		_, err = f.uc.VoidSale(ctx, &dto.VoidSaleInput{SaleID: s.ID, Reason: "wrong item"})
		require.NoError(t, err)

		require.NoError(t, f.uc.DeleteSale(ctx, s.ID, "admin"))
		assert.Equal(t, 9.0, testutil.Stock(t, f.db, p.ID))
	})

	t.Run("settled sale keeps stock", func(t *testing.T) {
		f := newFixture(t)
		p := testutil.SeedProduct(t, f.db, "NUT", "5", "10", 8)
		s := debtSettledSale(t, f, p.ID, 2)

		require.NoError(t, f.uc.DeleteSale(ctx, s.ID, "admin"))
		assert.Equal(t, 8.0, testutil.Stock(t, f.db, p.ID))
	})

	t.Run("missing sale", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.uc.DeleteSale(ctx, "missing", "admin"), apperror.ErrNotFound)
	})
}

func TestRemoveSaleItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := testutil.SeedProduct(t, f.db, "CAKE", "4", "9", 5)
	b := testutil.SeedProduct(t, f.db, "PIE", "6", "11", 5)

	s, err := f.uc.CreateSale(ctx, &dto.CreateSaleInput{
		Items:         []dto.SaleItemInput{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 1}},
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	require.True(t, s.Total.Equal(testutil.Dec("29")))

	updated, err := f.uc.RemoveSaleItem(ctx, &dto.RemoveSaleItemInput{SaleID: s.ID, ItemID: s.Items[0].ID, UserID: "manager"})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(testutil.Dec("11")), updated.Total.String())
	assert.Equal(t, 5.0, testutil.Stock(t, f.db, a.ID))
	assert.Equal(t, 4.0, testutil.Stock(t, f.db, b.ID))

	_, err = f.uc.RemoveSaleItem(ctx, &dto.RemoveSaleItemInput{SaleID: s.ID, ItemID: s.Items[0].ID})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.uc.RemoveSaleItem(ctx, &dto.RemoveSaleItemInput{SaleID: s.ID, ItemID: "nope"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// voiding now only returns the remaining line
	_, err = f.uc.VoidSale(ctx, &dto.VoidSaleInput{SaleID: s.ID, Reason: "closed early"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, testutil.Stock(t, f.db, a.ID))
	assert.Equal(t, 5.0, testutil.Stock(t, f.db, b.ID))

	_, err = f.uc.RemoveSaleItem(ctx, &dto.RemoveSaleItemInput{SaleID: s.ID, ItemID: s.Items[1].ID})
	assert.ErrorIs(t, err, apperror.ErrAlreadyVoided)
}

func TestCreateSaleWithSameExternalRefRecordsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "SUGAR", "3", "5", 10)

	input := &dto.CreateSaleInput{
		UserID:        "terminal-7",
		Items:         []dto.SaleItemInput{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: "card",
		ExternalRef:   "evt-42",
	}
	first, err := f.uc.CreateSale(ctx, input)
	require.NoError(t, err)
	require.NotNil(t, first.ExternalRef)
	assert.Equal(t, "evt-42", *first.ExternalRef)

	again, err := f.uc.CreateSale(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	assert.Equal(t, 8.0, testutil.Stock(t, f.db, p.ID))
	assert.Equal(t, 1, testutil.Count(t, f.db, `SELECT count(*) FROM sales`))
	assert.Equal(t, []string{events.SaleCreated}, f.publisher.Types())

	input.ExternalRef = ""
	_, err = f.uc.CreateSale(ctx, input)
	require.NoError(t, err)
	_, err = f.uc.CreateSale(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 3, testutil.Count(t, f.db, `SELECT count(*) FROM sales`))
}

func TestListSalesFiltersByOrigin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := testutil.SeedProduct(t, f.db, "GUM", "1", "2", 10)
	_, err := f.uc.CreateSale(ctx, &dto.CreateSaleInput{Items: []dto.SaleItemInput{{ProductID: p.ID, Quantity: 1}}, PaymentMethod: "card"})
	require.NoError(t, err)
	debtSettledSale(t, f, p.ID, 1)

	sales, total, err := f.uc.ListSales(ctx, &dto.SaleFilters{Origin: model.OriginDebtSettled})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sales, 1)
	assert.Equal(t, model.OriginDebtSettled, sales[0].Origin)

	_, total, err = f.uc.ListSales(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
