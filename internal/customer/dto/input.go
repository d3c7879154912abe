package dto

import "github.com/shopspring/decimal"

type CreateCustomerInput struct {
	Name         string
	TaxID        string
	Phone        string
	Email        string
	Address      string
	IsSpecial    bool
	DebtDiscount decimal.Decimal
}

type UpdateCustomerInput struct {
	ID           string
	Name         string
	TaxID        string
	Phone        string
	Email        string
	Address      string
	IsSpecial    bool
	DebtDiscount decimal.Decimal
}
