package dto

type SaleItemInput struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
	// CustomPrice is set when a cashier overrode the catalog price. It is
	// carried separately so listed-vs-charged stays auditable.
	CustomPrice *float64 `json:"customPrice" validate:"omitempty,gte=0"`
}

type CreateSaleInput struct {
	TenantID       string
	UserID         string
	IdempotencyKey string
	PaymentMethod  string          `json:"paymentMethod" validate:"required,oneof=CASH CARD TRANSFER"`
	TotalAmount    float64         `json:"totalAmount" validate:"gte=0"`
	Items          []SaleItemInput `json:"items" validate:"required,min=1,dive"`
}

type UpdateSaleInput struct {
	SaleID   string
	TenantID string
	UserID   string
	Notes    string          `json:"notes" validate:"required,min=3"`
	Items    []SaleItemInput `json:"items" validate:"required,dive"`
}
