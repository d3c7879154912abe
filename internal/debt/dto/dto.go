package dto

import "github.com/fekuna/omnipos-ledger/internal/model"

type DebtFilters struct {
	CustomerID string
	Status     model.DebtStatus
	Page       int
	PageSize   int
}

type PaymentResult struct {
	Debt    *model.Debt
	Payment *model.DebtPayment
	// Sale is set only when this payment settled the debt.
	Sale *model.Sale
}
