package category

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, tenantID, name, description string) (*model.Category, error)
	ListCategories(ctx context.Context, tenantID string) ([]model.Category, error)
	UpdateCategory(ctx context.Context, tenantID, id, name, description string, isActive bool) (*model.Category, error)
	DeleteCategory(ctx context.Context, tenantID, id string) error
}
