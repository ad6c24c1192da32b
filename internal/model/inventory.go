package model

import "time"

type InventoryMovement struct {
	ID             string    `db:"id" json:"id"`
	TenantID       string    `db:"tenant_id" json:"tenant_id"`
	ProductID      string    `db:"product_id" json:"product_id"`
	MovementType   string    `db:"movement_type" json:"movement_type"`
	QuantityChange float64   `db:"quantity_change" json:"quantity_change"`
	QuantityBefore float64   `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  float64   `db:"quantity_after" json:"quantity_after"`
	ReferenceType  *string   `db:"reference_type" json:"reference_type"`
	ReferenceID    *string   `db:"reference_id" json:"reference_id"`
	Notes          string    `db:"notes" json:"notes"`
	CreatedBy      *string   `db:"created_by" json:"created_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

const (
	MovementTypeSale       = "SALE"
	MovementTypeSaleEdit   = "SALE_EDIT"
	MovementTypeWebOrder   = "WEB_ORDER"
	MovementTypeAdjustment = "ADJUSTMENT"
)
