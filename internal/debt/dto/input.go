package dto

import "github.com/shopspring/decimal"

type DebtItemInput struct {
	ProductID string
	Quantity  float64
	// UnitPrice defaults to the product sale price when zero.
	UnitPrice decimal.Decimal
	WeightKg  float64
}

type CreateDebtInput struct {
	CustomerID string
	Items      []DebtItemInput
	Note       string
	UserID     string
}

type RecordPaymentInput struct {
	DebtID        string
	Amount        decimal.Decimal
	PaymentMethod string
	UserID        string
}
