package model

type Sale struct {
	BaseModel
	TenantID       string     `db:"tenant_id" json:"tenant_id"`
	UserID         string     `db:"user_id" json:"user_id"`
	SaleNumber     string     `db:"sale_number" json:"sale_number"`
	Status         string     `db:"status" json:"status"`
	TotalAmount    float64    `db:"total_amount" json:"total_amount"`
	SubtotalAmount float64    `db:"subtotal_amount" json:"subtotal_amount"`
	TotalTax       float64    `db:"total_tax" json:"total_tax"`
	PaymentMethod  string     `db:"payment_method" json:"payment_method"`
	Notes          *string    `db:"notes" json:"notes"`
	WasEdited      bool       `db:"was_edited" json:"was_edited"`
	Items          []SaleItem `db:"-" json:"items"`
}

type SaleItem struct {
	ID          string  `db:"id" json:"id"`
	SaleID      string  `db:"sale_id" json:"sale_id"`
	ProductID   string  `db:"product_id" json:"product_id"`
	ProductName string  `db:"product_name" json:"product_name"`
	Quantity    float64 `db:"quantity" json:"quantity"`
	// UnitPrice is the price actually charged. When CustomPrice is set the
	// two differ from the catalog price and the backend can audit
	// listed-vs-charged.
	UnitPrice       float64  `db:"unit_price" json:"unit_price"`
	CustomPrice     *float64 `db:"custom_price" json:"custom_price"`
	NetPriceAtSale  float64  `db:"net_price_at_sale" json:"net_price_at_sale"`
	UnitTax         float64  `db:"unit_tax" json:"unit_tax"`
	CostPriceAtSale float64  `db:"cost_price_at_sale" json:"cost_price_at_sale"`
	Subtotal        float64  `db:"subtotal" json:"subtotal"`
}

const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusRefunded  = "REFUNDED"
)
