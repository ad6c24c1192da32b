package settings

import (
	"context"

	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/settings/dto"
)

type UseCase interface {
	GetConfig(ctx context.Context, tenantID string) (*model.ShopConfig, error)
	GetConfigBySlug(ctx context.Context, slug string) (*model.ShopConfig, error)
	SaveConfig(ctx context.Context, input *dto.SaveConfigInput) (*model.ShopConfig, error)

	// SetPin stores the bcrypt hash of the admin PIN that gates price
	// overrides.
	SetPin(ctx context.Context, tenantID, pin string) error

	// VerifyPin is the authorization collaborator for the price-override
	// boundary: callers must pass it before a custom price is applied.
	VerifyPin(ctx context.Context, tenantID, pin string) (bool, error)
}
