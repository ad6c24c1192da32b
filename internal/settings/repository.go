package settings

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
)

type Repository interface {
	FindByTenant(ctx context.Context, tenantID string) (*model.ShopConfig, error)
	FindBySlug(ctx context.Context, slug string) (*model.ShopConfig, error)
	Upsert(ctx context.Context, config *model.ShopConfig) error
	SetPinHash(ctx context.Context, tenantID, hash string) error
}
