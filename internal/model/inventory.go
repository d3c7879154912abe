package model

import "time"

type MovementType string

const (
	MovementDebtCreated MovementType = "debt_created"
	MovementDebtRemoved MovementType = "debt_removed"
	MovementSale        MovementType = "sale"
	MovementSaleVoided  MovementType = "sale_voided"
	MovementSaleDeleted MovementType = "sale_deleted"
	MovementItemRemoved MovementType = "item_removed"
	MovementAdjustment  MovementType = "adjustment"
)

type StockMovement struct {
	ID             string       `db:"id" json:"id"`
	ProductID      string       `db:"product_id" json:"product_id"`
	MovementType   MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange float64      `db:"quantity_change" json:"quantity_change"`
	QuantityBefore float64      `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  float64      `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string      `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    *string      `db:"reference_id" json:"reference_id,omitempty"`
	Notes          string       `db:"notes" json:"notes"`
	CreatedBy      *string      `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
