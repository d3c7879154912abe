package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Code         string          `db:"code" json:"code"`
	Name         string          `db:"name" json:"name"`
	CostPrice    decimal.Decimal `db:"cost_price" json:"cost_price"`
	SalePrice    decimal.Decimal `db:"sale_price" json:"sale_price"`
	Stock        float64         `db:"stock" json:"stock"`         // kg when SoldByWeight
	MinStock     float64         `db:"min_stock" json:"min_stock"` // low-stock threshold
	IsActive     bool            `db:"is_active" json:"is_active"`
	SoldByWeight bool            `db:"sold_by_weight" json:"sold_by_weight"`
	Unit         string          `db:"unit" json:"unit"`
}

func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
