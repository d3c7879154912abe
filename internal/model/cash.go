package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalOrigin string

const (
	WithdrawalFromSales  WithdrawalOrigin = "sales"
	WithdrawalFromProfit WithdrawalOrigin = "profit"
)

func (o WithdrawalOrigin) Valid() bool {
	return o == WithdrawalFromSales || o == WithdrawalFromProfit
}

type WithdrawalStatus string

const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalCompleted WithdrawalStatus = "completed"
)

type CashWithdrawal struct {
	ID          string           `db:"id" json:"id"`
	UserID      string           `db:"user_id" json:"user_id"`
	ApproverID  *string          `db:"approver_id" json:"approver_id,omitempty"`
	Amount      decimal.Decimal  `db:"amount" json:"amount"`
	Reason      string           `db:"reason" json:"reason"`
	Origin      WithdrawalOrigin `db:"origin" json:"origin"`
	Status      WithdrawalStatus `db:"status" json:"status"`
	RequestedAt time.Time        `db:"requested_at" json:"requested_at"`
	ApprovedAt  *time.Time       `db:"approved_at" json:"approved_at,omitempty"`
	// ClosingID is set once a completed withdrawal is netted into a closing.
	ClosingID *string `db:"closing_id" json:"closing_id,omitempty"`
}

type CashClosing struct {
	ID       string    `db:"id" json:"id"`
	UserID   string    `db:"user_id" json:"user_id"`
	ClosedAt time.Time `db:"closed_at" json:"closed_at"`
	// SystemValue is the expected till: sales minus withdrawals taken out.
	SystemValue      decimal.Decimal `db:"system_value" json:"system_value"`
	DeclaredValue    decimal.Decimal `db:"declared_value" json:"declared_value"`
	Difference       decimal.Decimal `db:"difference" json:"difference"`
	WithdrawalsValue decimal.Decimal `db:"withdrawals_value" json:"withdrawals_value"`
	Note             string          `db:"note" json:"note"`

	Methods       []CashClosingMethod `db:"-" json:"methods,omitempty"`
	SaleIDs       []string            `db:"-" json:"sale_ids,omitempty"`
	WithdrawalIDs []string            `db:"-" json:"withdrawal_ids,omitempty"`
}

type CashClosingMethod struct {
	ClosingID     string          `db:"closing_id" json:"closing_id"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	SystemValue   decimal.Decimal `db:"system_value" json:"system_value"`
	DeclaredValue decimal.Decimal `db:"declared_value" json:"declared_value"`
	Difference    decimal.Decimal `db:"difference" json:"difference"`
}

// CashSummary is the aggregator view of one period.
type CashSummary struct {
	Period            Period          `json:"period"`
	GrossSales        decimal.Decimal `json:"gross_sales"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	SalesWithdrawals  decimal.Decimal `json:"sales_withdrawals"`
	ProfitWithdrawals decimal.Decimal `json:"profit_withdrawals"`
	AvailableSales    decimal.Decimal `json:"available_sales"`
	AvailableProfit   decimal.Decimal `json:"available_profit"`
}

type InventoryValuation struct {
	AtCost      decimal.Decimal `json:"at_cost"`
	AtSalePrice decimal.Decimal `json:"at_sale_price"`
}
