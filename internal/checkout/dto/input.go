package dto

type AddItemInput struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

type SetPriceInput struct {
	Price float64 `json:"price" validate:"gte=0"`
}

type AuthorizeInput struct {
	Pin string `json:"pin" validate:"required,min=4,max=12"`
}

type SubmitInput struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=CASH CARD TRANSFER"`
}
