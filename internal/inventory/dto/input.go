package dto

import "github.com/fekuna/omnipos-ledger/internal/model"

// StockChangeInput describes one ledger movement. Quantity is always
// positive; the direction comes from the operation.
type StockChangeInput struct {
	ProductID     string
	Quantity      float64
	MovementType  model.MovementType
	ReferenceType string // debt, sale, sale_item
	ReferenceID   string
	UserID        string
	Notes         string
}

type AdjustInventoryInput struct {
	ProductID      string
	QuantityChange float64
	Reason         string
	UserID         string
}
