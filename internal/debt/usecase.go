package debt

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/debt/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
)

type UseCase interface {
	CreateDebt(ctx context.Context, input *dto.CreateDebtInput) (*model.Debt, error)
	// RecordPayment settles the debt and materializes its sale in the same
	// transaction when the payment covers the outstanding balance.
	RecordPayment(ctx context.Context, input *dto.RecordPaymentInput) (*dto.PaymentResult, error)
	RemoveDebt(ctx context.Context, id, userID string) error

	GetDebt(ctx context.Context, id string) (*model.Debt, error)
	ListDebts(ctx context.Context, filters *dto.DebtFilters) ([]model.Debt, int, error)
	ListPayments(ctx context.Context, debtID string) ([]model.DebtPayment, error)
}

// Settler writes the sale for a debt that has just been settled.
type Settler interface {
	Materialize(ctx context.Context, debt *model.Debt, last *model.DebtPayment) (*model.Sale, error)
}

type CustomerFinder interface {
	FindByID(ctx context.Context, id string) (*model.Customer, error)
}

type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
