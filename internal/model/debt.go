package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type DebtStatus string

const (
	DebtPending DebtStatus = "Pending"
	DebtSettled DebtStatus = "Settled" // terminal
)

type Debt struct {
	BaseModel
	CustomerID string          `db:"customer_id" json:"customer_id"`
	Total      decimal.Decimal `db:"total" json:"total"`
	// OriginalAmount, DiscountAmount and DiscountPercent are carried for
	// compatibility; debts are always written without discount.
	OriginalAmount  decimal.Decimal `db:"original_amount" json:"original_amount"`
	DiscountAmount  decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	DiscountPercent decimal.Decimal `db:"discount_percent" json:"discount_percent"`
	AmountPaid      decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	Status          DebtStatus      `db:"status" json:"status"`
	Note            string          `db:"note" json:"note"`
	UserID          string          `db:"user_id" json:"user_id"`
	Version         int64           `db:"version" json:"version"`

	Items    []DebtItem    `db:"-" json:"items,omitempty"`
	Payments []DebtPayment `db:"-" json:"payments,omitempty"`
}

type DebtItem struct {
	ID        string          `db:"id" json:"id"`
	DebtID    string          `db:"debt_id" json:"debt_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  float64         `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	// UnitCostPrice is the product cost when the debt was created.
	UnitCostPrice decimal.Decimal `db:"unit_cost_price" json:"unit_cost_price"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	WeightKg      float64         `db:"weight_kg" json:"weight_kg"`
}

type DebtPayment struct {
	ID            string          `db:"id" json:"id"`
	DebtID        string          `db:"debt_id" json:"debt_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	UserID        string          `db:"user_id" json:"user_id"`
	PaidAt        time.Time       `db:"paid_at" json:"paid_at"`
}

// NewDebt builds a pending debt from its items. The total is the sum of the
// item subtotals.
func NewDebt(id, customerID, userID, note string, items []DebtItem, now time.Time) (*Debt, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("debt needs at least one item")
	}
	total := decimal.Zero
	for i := range items {
		items[i].DebtID = id
		total = total.Add(items[i].Subtotal)
	}
	d := &Debt{
		BaseModel:       BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		CustomerID:      customerID,
		Total:           RoundMoney(total),
		OriginalAmount:  RoundMoney(total),
		DiscountAmount:  decimal.Zero,
		DiscountPercent: decimal.Zero,
		AmountPaid:      decimal.Zero,
		Status:          DebtPending,
		Note:            note,
		UserID:          userID,
		Version:         1,
		Items:           items,
	}
	return d, d.Validate()
}

// Outstanding is total minus paid, never negative.
func (d *Debt) Outstanding() decimal.Decimal {
	out := d.Total.Sub(d.AmountPaid)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// CoversTotal reports whether paid reaches the total within Epsilon.
func (d *Debt) CoversTotal(paid decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(d.Total.Sub(Epsilon))
}

// Validate checks paid <= total (within Epsilon) and that the status agrees
// with the paid amount.
func (d *Debt) Validate() error {
	if d.Total.IsNegative() {
		return fmt.Errorf("debt total %s is negative", d.Total)
	}
	if d.AmountPaid.IsNegative() {
		return fmt.Errorf("debt amount paid %s is negative", d.AmountPaid)
	}
	if d.AmountPaid.GreaterThan(d.Total.Add(Epsilon)) {
		return fmt.Errorf("debt amount paid %s exceeds total %s", d.AmountPaid, d.Total)
	}
	settled := d.CoversTotal(d.AmountPaid)
	switch {
	case settled && d.Status != DebtSettled:
		return fmt.Errorf("debt fully paid but status is %s", d.Status)
	case !settled && d.Status != DebtPending:
		return fmt.Errorf("debt not fully paid but status is %s", d.Status)
	}
	return nil
}

// ApplyPayment returns the paid amount and status after adding amount.
func (d *Debt) ApplyPayment(amount decimal.Decimal) (decimal.Decimal, DebtStatus) {
	paid := RoundMoney(d.AmountPaid.Add(amount))
	if d.CoversTotal(paid) {
		return paid, DebtSettled
	}
	return paid, DebtPending
}
