package dto

import (
	"time"

	"github.com/fekuna/omnipos-ledger/internal/model"
)

type SaleFilters struct {
	Status    model.SaleStatus
	Origin    model.SaleOrigin
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
