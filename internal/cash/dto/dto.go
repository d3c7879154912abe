package dto

import (
	"time"

	"github.com/fekuna/omnipos-ledger/internal/model"
)

type WithdrawalFilters struct {
	Status    model.WithdrawalStatus
	Origin    model.WithdrawalOrigin
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

type ClosingFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}
