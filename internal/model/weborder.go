package model

type WebOrder struct {
	BaseModel
	TenantID        string         `db:"tenant_id" json:"tenant_id"`
	OrderNumber     string         `db:"order_number" json:"order_number"`
	Status          string         `db:"status" json:"status"`
	CustomerName    string         `db:"customer_name" json:"customer_name"`
	CustomerPhone   string         `db:"customer_phone" json:"customer_phone"`
	CustomerAddress *string        `db:"customer_address" json:"customer_address"` // Delivery only
	PaymentMethod   string         `db:"payment_method" json:"payment_method"`
	DeliveryMethod  string         `db:"delivery_method" json:"delivery_method"`
	TotalAmount     float64        `db:"total_amount" json:"total_amount"`
	Items           []WebOrderItem `db:"-" json:"items"`
}

type WebOrderItem struct {
	ID          string   `db:"id" json:"id"`
	OrderID     string   `db:"order_id" json:"order_id"`
	ProductID   string   `db:"product_id" json:"product_id"`
	ProductName string   `db:"product_name" json:"product_name"`
	Quantity    float64  `db:"quantity" json:"quantity"`
	UnitPrice   float64  `db:"unit_price" json:"unit_price"`
	CustomPrice *float64 `db:"custom_price" json:"custom_price"`
	Subtotal    float64  `db:"subtotal" json:"subtotal"`
}

const (
	WebOrderStatusPending   = "PENDING"
	WebOrderStatusConfirmed = "CONFIRMED"
	WebOrderStatusDelivered = "DELIVERED"
	WebOrderStatusCancelled = "CANCELLED"
)

const (
	DeliveryMethodPickup   = "PICKUP"
	DeliveryMethodDelivery = "DELIVERY"
)
