package sales

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/sales/dto"
)

type UseCase interface {
	// ProcessSale realizes a submission payload as a completed sale:
	// authoritative stock re-validation, flexible pricing, inventory
	// movements and the sale-completed event.
	ProcessSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error)

	GetSale(ctx context.Context, tenantID, id string) (*model.Sale, error)
	ListSales(ctx context.Context, tenantID string, page, pageSize int) ([]model.Sale, int, error)

	// UpdateSale is the correction/refund workflow: replaces the item
	// set, restores stock deltas and records the edit reason.
	UpdateSale(ctx context.Context, input *dto.UpdateSaleInput) (*model.Sale, error)
}
