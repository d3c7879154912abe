package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Code         string
	Name         string
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	InitialStock float64
	MinStock     float64
	SoldByWeight bool
	Unit         string
}

// UpdateProductInput changes catalogue data. Stock is owned by the inventory
// ledger and cannot be set here.
type UpdateProductInput struct {
	ID           string
	Code         string
	Name         string
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	MinStock     float64
	SoldByWeight bool
	Unit         string
	// IsActive is left unchanged when nil.
	IsActive *bool
}
