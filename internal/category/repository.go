package category

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, tenantID, id string) (*model.Category, error)
	FindAll(ctx context.Context, tenantID string) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, tenantID, id string) error
}
