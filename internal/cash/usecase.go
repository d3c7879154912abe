package cash

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/cash/dto"
	"github.com/fekuna/omnipos-ledger/internal/model"
)

type UseCase interface {
	RequestWithdrawal(ctx context.Context, input *dto.RequestWithdrawalInput) (*model.CashWithdrawal, error)
	ApproveWithdrawal(ctx context.Context, input *dto.ApproveWithdrawalInput) (*model.CashWithdrawal, error)
	ListWithdrawals(ctx context.Context, filters *dto.WithdrawalFilters) ([]model.CashWithdrawal, int, error)

	CloseCash(ctx context.Context, input *dto.CloseCashInput) (*model.CashClosing, error)
	GetClosing(ctx context.Context, id string) (*model.CashClosing, error)
	ListClosings(ctx context.Context, filters *dto.ClosingFilters) ([]model.CashClosing, int, error)
}
