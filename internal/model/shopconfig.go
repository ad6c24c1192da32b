package model

import "github.com/jmoiron/sqlx/types"

type ShopConfig struct {
	BaseModel
	TenantID        string         `db:"tenant_id" json:"tenant_id"`
	URLSlug         string         `db:"url_slug" json:"url_slug"`
	ShopName        string         `db:"shop_name" json:"shop_name"`
	PrimaryColor    *string        `db:"primary_color" json:"primary_color"`
	ContactPhone    *string        `db:"contact_phone" json:"contact_phone"`
	LogoURL         *string        `db:"logo_url" json:"logo_url"`
	AdminPinHash    *string        `db:"admin_pin_hash" json:"-"`
	PaymentMethods  types.JSONText `db:"payment_methods" json:"payment_methods"`
	ShippingMethods types.JSONText `db:"shipping_methods" json:"shipping_methods"`
	IsActive        bool           `db:"is_active" json:"is_active"`
}
