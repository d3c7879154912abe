package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used when comparing paid amounts with totals.
var Epsilon = decimal.New(1, -2)

// RoundMoney rounds to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundQuantity rounds to grams / thousandths of a unit.
func RoundQuantity(q float64) float64 {
	return math.Round(q*1000) / 1000
}

// LineSubtotal is unit price times quantity, rounded to cents.
func LineSubtotal(unitPrice decimal.Decimal, quantity float64) decimal.Decimal {
	return RoundMoney(unitPrice.Mul(decimal.NewFromFloat(quantity)))
}
