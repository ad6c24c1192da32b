package weborder

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
)

type Repository interface {
	// CreateOrder persists the order with its items, reserving stock for
	// every line in the same transaction.
	CreateOrder(ctx context.Context, order *model.WebOrder) error

	FindByID(ctx context.Context, tenantID, id string) (*model.WebOrder, error)
	FindAll(ctx context.Context, tenantID, status string, page, pageSize int) ([]model.WebOrder, int, error)

	// UpdateStatus moves the order from one status to another. The write
	// is conditional on the previous status so concurrent transitions
	// cannot both win; the loser gets ErrStatusConflict.
	UpdateStatus(ctx context.Context, tenantID, id, from, to string) error

	// CancelOrder sets the order CANCELLED and returns its reserved
	// quantities to stock in one transaction. Stock is only released
	// when the status row actually transitioned, so a retry or a
	// concurrent cancel cannot credit the quantities twice.
	CancelOrder(ctx context.Context, order *model.WebOrder, from string) error

	FindProductsByIDs(ctx context.Context, tenantID string, ids []string) (map[string]model.Product, error)
}
