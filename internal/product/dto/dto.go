package dto

type ProductFilters struct {
	IsActive    *bool
	SearchQuery string // code or name
	SortBy      string // name, code, stock, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
