package dto

type MovementFilters struct {
	TenantID     string
	ProductID    string `query:"product_id"`
	MovementType string `query:"movement_type" validate:"omitempty,oneof=SALE SALE_EDIT WEB_ORDER ADJUSTMENT"`
	Page         int    `query:"page"`
	PageSize     int    `query:"page_size"`
}

type AdjustStockInput struct {
	TenantID       string
	UserID         string
	ProductID      string  `json:"productId" validate:"required"`
	QuantityChange float64 `json:"quantityChange" validate:"required"`
	Reason         string  `json:"reason" validate:"required,min=3,max=250"`
}
