package weborder

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/weborder/dto"
)

type UseCase interface {
	// PlaceOrder handles a storefront checkout addressed by shop slug:
	// stock is re-validated and reserved, prices resolved from the
	// catalog (with optional admin overrides for phone-edited orders).
	PlaceOrder(ctx context.Context, slug string, input *dto.PlaceOrderInput) (*model.WebOrder, error)

	GetOrder(ctx context.Context, tenantID, id string) (*model.WebOrder, error)
	ListOrders(ctx context.Context, tenantID, status string, page, pageSize int) ([]model.WebOrder, int, error)

	// Transition moves an order through its lifecycle. Cancelling
	// releases the reserved stock.
	Transition(ctx context.Context, tenantID, id, status string) (*model.WebOrder, error)
}
