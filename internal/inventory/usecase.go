package inventory

import (
	"context"

	"github.com/saaspos/sales-service/internal/inventory/dto"
	"github.com/saaspos/sales-service/internal/model"
)

type UseCase interface {
	// ListMovements is the audit trail: every stock change, whatever
	// recorded it, shows up here.
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)

	// AdjustStock applies a manual correction (recount, breakage, intake)
	// under a per-product lock and records an ADJUSTMENT movement.
	AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryMovement, error)
}
