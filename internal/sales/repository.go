package sales

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
)

type Repository interface {
	// CreateSale persists the sale header, its items and the matching
	// inventory movements, decrementing product stock in the same
	// transaction. Fails with *InsufficientStockError when the
	// authoritative stock no longer covers an item.
	CreateSale(ctx context.Context, sale *model.Sale) error

	// ReplaceItems swaps a sale's items for the edit workflow: previous
	// quantities are returned to stock, the new ones deducted, and the
	// header retotaled, all transactionally.
	ReplaceItems(ctx context.Context, sale *model.Sale, previous []model.SaleItem) error

	FindByID(ctx context.Context, tenantID, id string) (*model.Sale, error)
	FindAll(ctx context.Context, tenantID string, page, pageSize int) ([]model.Sale, int, error)

	FindProductsByIDs(ctx context.Context, tenantID string, ids []string) (map[string]model.Product, error)
}
