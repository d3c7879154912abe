package model

import "github.com/shopspring/decimal"

type Customer struct {
	BaseModel
	Name      string `db:"name" json:"name"`
	TaxID     string `db:"tax_id" json:"tax_id"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email"`
	Address   string `db:"address" json:"address"`
	IsSpecial bool   `db:"is_special" json:"is_special"`
	// DebtDiscount is a legacy percentage. No business rule reads it.
	DebtDiscount decimal.Decimal `db:"debt_discount" json:"debt_discount"`
}
