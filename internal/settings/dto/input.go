package dto

type SaveConfigInput struct {
	TenantID        string
	URLSlug         string `validate:"required,min=3,max=60"`
	ShopName        string `validate:"required,min=2,max=100"`
	PrimaryColor    string
	ContactPhone    string
	LogoURL         string
	PaymentMethods  []string `validate:"required,min=1,dive,oneof=CASH CARD TRANSFER"`
	ShippingMethods []string `validate:"required,min=1,dive,oneof=PICKUP DELIVERY"`
	IsActive        bool
}
