package model

import "github.com/saaspos/sales-service/internal/cart"

type Product struct {
	BaseModel
	TenantID        string   `db:"tenant_id" json:"tenant_id"`
	CategoryID      *string  `db:"category_id" json:"category_id"` // Nullable
	SKU             string   `db:"sku" json:"sku"`
	Barcode         *string  `db:"barcode" json:"barcode"` // Nullable
	Name            string   `db:"name" json:"name"`
	Description     *string  `db:"description" json:"description"`
	PriceNet        float64  `db:"price_net" json:"price_net"`
	PriceFinal      *float64 `db:"price_final" json:"price_final"`
	CostPrice       *float64 `db:"cost_price" json:"cost_price"`
	TaxPercent      *float64 `db:"tax_percent" json:"tax_percent"`
	IsTaxIncluded   bool     `db:"is_tax_included" json:"is_tax_included"`
	StockCurrent    float64  `db:"stock_current" json:"stock_current"`
	StockMin        float64  `db:"stock_min" json:"stock_min"`
	MeasurementUnit string   `db:"measurement_unit" json:"measurement_unit"` // UNIT or KG
	ImageURL        *string  `db:"image_url" json:"image_url"`
	IsActive        bool     `db:"is_active" json:"is_active"`

	CategoryName *string `db:"category_name" json:"category_name"` // Joined data
}

// Snapshot projects the catalog row into the point-in-time view the cart
// engine consumes. The engine never sees the row itself.
func (p *Product) Snapshot() cart.Snapshot {
	return cart.Snapshot{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Unit:         cart.Unit(p.MeasurementUnit),
		StockCurrent: p.StockCurrent,
		PriceNet:     p.PriceNet,
		TaxPercent:   p.TaxPercent,
		PriceFinal:   p.PriceFinal,
	}
}
