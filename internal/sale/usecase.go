package sale

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/model"
	"github.com/fekuna/omnipos-ledger/internal/sale/dto"
)

type UseCase interface {
	CreateSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error)
	GetSale(ctx context.Context, id string) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)

	// VoidSale and DeleteSale restore stock only for direct sales. A sale
	// materialized from a settled debt never returns goods: the debt already
	// moved them exactly once.
	VoidSale(ctx context.Context, input *dto.VoidSaleInput) (*model.Sale, error)
	DeleteSale(ctx context.Context, id, userID string) error
	RemoveSaleItem(ctx context.Context, input *dto.RemoveSaleItemInput) (*model.Sale, error)
}

type ProductFinder interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
