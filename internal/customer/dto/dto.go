package dto

type CustomerFilters struct {
	SearchQuery string // name, tax id or phone
	SpecialOnly bool
	Page        int
	PageSize    int
}
