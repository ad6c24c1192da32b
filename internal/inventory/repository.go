package inventory

import (
	"context"

	"github.com/saaspos/sales-service/internal/inventory/dto"
	"github.com/saaspos/sales-service/internal/model"
)

type Repository interface {
	FindMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// GetStock reads the product's current stock level, nil when the
	// product does not exist for the tenant.
	GetStock(ctx context.Context, tenantID, productID string) (*float64, error)

	// AdjustStockWithMovement writes the new stock level and its audit
	// movement in one transaction.
	AdjustStockWithMovement(ctx context.Context, tenantID, productID string, newStock float64, movement *model.InventoryMovement) error
}
