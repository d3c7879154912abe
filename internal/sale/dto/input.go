package dto

import "github.com/shopspring/decimal"

type SaleItemInput struct {
	ProductID string
	Quantity  float64
	WeightKg  float64
}

type CreateSaleInput struct {
	UserID         string
	Items          []SaleItemInput
	PaymentMethod  string
	AmountReceived decimal.Decimal
	// ExternalRef makes the call idempotent: a second sale with the same
	// reference returns the first one.
	ExternalRef string
}

type VoidSaleInput struct {
	SaleID string
	Reason string
	UserID string
}

type RemoveSaleItemInput struct {
	SaleID string
	ItemID string
	UserID string
}
