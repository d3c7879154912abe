package debt

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/debt/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
)

type Repository interface {
	// Create inserts the debt and its line items.
	Create(ctx context.Context, debt *model.Debt) error
	// FindByID loads the debt with its items and payments.
	FindByID(ctx context.Context, id string) (*model.Debt, error)
	FindAll(ctx context.Context, filters *dto.DebtFilters) ([]model.Debt, int, error)
	ListPayments(ctx context.Context, debtID string) ([]model.DebtPayment, error)

	InsertPayment(ctx context.Context, payment *model.DebtPayment) error
	// UpdatePayment stores amount paid and status for a debt that is still
	// pending at expectedVersion, and bumps the version.
	UpdatePayment(ctx context.Context, debt *model.Debt, expectedVersion int64) error

	// Delete removes line items, payments and the debt, in that order.
	Delete(ctx context.Context, id string) error
}
