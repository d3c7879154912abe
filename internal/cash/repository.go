package cash

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-ledger/internal/cash/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
)

type Repository interface {
	CreateWithdrawal(ctx context.Context, w *model.CashWithdrawal) error
	FindWithdrawal(ctx context.Context, id string) (*model.CashWithdrawal, error)
	// ApproveWithdrawal completes a pending withdrawal.
	ApproveWithdrawal(ctx context.Context, id, approverID string, at time.Time) error
	ListWithdrawals(ctx context.Context, filters *dto.WithdrawalFilters) ([]model.CashWithdrawal, int, error)

	// UnclosedSales returns the non-voided sales not linked to any closing.
	UnclosedSales(ctx context.Context) ([]model.Sale, error)
	// UnclosedWithdrawals returns completed withdrawals not yet netted into a
	// closing.
	UnclosedWithdrawals(ctx context.Context) ([]model.CashWithdrawal, error)
	// CreateClosing writes the closing with its breakdown, links its sales and
	// withdrawals and marks the sales Closed.
	CreateClosing(ctx context.Context, closing *model.CashClosing) error
	FindClosing(ctx context.Context, id string) (*model.CashClosing, error)
	ListClosings(ctx context.Context, filters *dto.ClosingFilters) ([]model.CashClosing, int, error)
}
