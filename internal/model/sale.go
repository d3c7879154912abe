package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleStatus string

const (
	SaleActive SaleStatus = "Active"
	SaleVoided SaleStatus = "Voided"
	SaleClosed SaleStatus = "Closed"
)

type SaleOrigin string

const (
	OriginDirectSale  SaleOrigin = "direct_sale"
	OriginDebtSettled SaleOrigin = "debt_settled"
)

const SaleItemRemoved = "Removed"

type Sale struct {
	ID             string          `db:"id" json:"id"`
	UserID         string          `db:"user_id" json:"user_id"`
	Total          decimal.Decimal `db:"total" json:"total"`
	PaymentMethod  string          `db:"payment_method" json:"payment_method"`
	AmountReceived decimal.Decimal `db:"amount_received" json:"amount_received"`
	Change         decimal.Decimal `db:"change_given" json:"change"`
	SaleDate       time.Time       `db:"sale_date" json:"sale_date"`
	Status         SaleStatus      `db:"status" json:"status"`
	VoidReason     *string         `db:"void_reason" json:"void_reason,omitempty"`
	VoidedBy       *string         `db:"voided_by" json:"voided_by,omitempty"`
	VoidedAt       *time.Time      `db:"voided_at" json:"voided_at,omitempty"`
	Origin         SaleOrigin      `db:"origin" json:"origin"`
	// Set only for debt_settled sales.
	DebtID         *string             `db:"debt_id" json:"debt_id,omitempty"`
	OriginalAmount decimal.NullDecimal `db:"original_amount" json:"original_amount"`
	DiscountAmount decimal.NullDecimal `db:"discount_amount" json:"discount_amount"`
	// ExternalRef identifies the terminal request that produced the sale.
	ExternalRef *string `db:"external_ref" json:"external_ref,omitempty"`

	Items []SaleItem `db:"-" json:"items,omitempty"`
}

// RestoresStock reports whether undoing this sale returns goods to stock.
// Sales materialized from a settled debt never do: the debt already moved
// the stock exactly once.
func (s *Sale) RestoresStock() bool {
	return s.Origin != OriginDebtSettled
}

// ActiveItems returns the line items that were not removed.
func (s *Sale) ActiveItems() []SaleItem {
	out := make([]SaleItem, 0, len(s.Items))
	for _, it := range s.Items {
		if !it.IsRemoved() {
			out = append(out, it)
		}
	}
	return out
}

type SaleItem struct {
	ID        string          `db:"id" json:"id"`
	SaleID    string          `db:"sale_id" json:"sale_id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Quantity  float64         `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	// UnitCostPrice is captured at sale time and never rewritten.
	UnitCostPrice decimal.Decimal `db:"unit_cost_price" json:"unit_cost_price"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	Status        *string         `db:"status" json:"status,omitempty"`
	WeightKg      float64         `db:"weight_kg" json:"weight_kg"`
}

func (i *SaleItem) IsRemoved() bool {
	return i.Status != nil && *i.Status == SaleItemRemoved
}

func (i *SaleItem) Profit() decimal.Decimal {
	return i.Subtotal.Sub(LineSubtotal(i.UnitCostPrice, i.Quantity))
}
