package dto

type OrderItemInput struct {
	ProductID   string   `json:"productId" validate:"required"`
	Quantity    float64  `json:"quantity" validate:"required,gt=0"`
	CustomPrice *float64 `json:"customPrice" validate:"omitempty,gte=0"`
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED DELIVERED CANCELLED"`
}

type PlaceOrderInput struct {
	CustomerName    string           `json:"customerName" validate:"required,min=2,max=100"`
	CustomerPhone   string           `json:"customerPhone" validate:"required,min=6,max=20"`
	CustomerAddress string           `json:"customerAddress" validate:"max=250"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required,oneof=CASH TRANSFER"`
	DeliveryMethod  string           `json:"deliveryMethod" validate:"required,oneof=PICKUP DELIVERY"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}
