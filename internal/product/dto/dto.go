package dto

type ProductFilters struct {
	TenantID    string
	CategoryID  string
	IsActive    *bool
	SearchQuery string
	LowStock    bool
	SortBy      string
	SortOrder   string
	Page        int
	PageSize    int
}
