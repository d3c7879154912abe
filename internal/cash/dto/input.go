package dto

import (
	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/shopspring/decimal"
)

type RequestWithdrawalInput struct {
	UserID string
	Amount decimal.Decimal
	Reason string
	Origin model.WithdrawalOrigin
}

type ApproveWithdrawalInput struct {
	ID         string
	ApproverID string
}

type CloseCashInput struct {
	UserID string
	// Declared maps payment method to the amount the cashier counted.
	Declared map[string]decimal.Decimal
	Note     string
}
