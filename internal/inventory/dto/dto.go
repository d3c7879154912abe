package dto

import (
	"time"

	"github.com/fekuna/omnipos-ledger/internal/model"
)

// ProductStock is the slice of a product row the ledger works with.
type ProductStock struct {
	ProductID string  `db:"id"`
	Stock     float64 `db:"stock"`
	IsActive  bool    `db:"is_active"`
}

type MovementFilters struct {
	ProductID     string
	MovementType  model.MovementType
	ReferenceType string
	ReferenceID   string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          int
	PageSize      int
}
