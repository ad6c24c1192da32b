package dto

type CreateProductInput struct {
	TenantID        string
	CategoryID      string
	SKU             string   `validate:"required"`
	Barcode         string
	Name            string   `validate:"required,min=2,max=150"`
	Description     string
	PriceNet        float64  `validate:"gte=0"`
	PriceFinal      *float64 `validate:"omitempty,gte=0"`
	CostPrice       *float64 `validate:"omitempty,gte=0"`
	TaxPercent      *float64 `validate:"omitempty,gte=0,lte=100"`
	IsTaxIncluded   bool
	StockCurrent    float64 `validate:"gte=0"`
	StockMin        float64 `validate:"gte=0"`
	MeasurementUnit string  `validate:"required,oneof=UNIT KG"`
	ImageURL        string
}

type UpdateProductInput struct {
	ID              string
	TenantID        string
	CategoryID      string
	SKU             string   `validate:"required"`
	Barcode         string
	Name            string   `validate:"required,min=2,max=150"`
	Description     string
	PriceNet        float64  `validate:"gte=0"`
	PriceFinal      *float64 `validate:"omitempty,gte=0"`
	CostPrice       *float64 `validate:"omitempty,gte=0"`
	TaxPercent      *float64 `validate:"omitempty,gte=0,lte=100"`
	IsTaxIncluded   bool
	StockCurrent    float64 `validate:"gte=0"`
	StockMin        float64 `validate:"gte=0"`
	MeasurementUnit string  `validate:"required,oneof=UNIT KG"`
	ImageURL        string
	IsActive        bool
}
