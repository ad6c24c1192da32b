package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/settings"
	"github.com/saaspos/sales-service/internal/settings/dto"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrNoPinConfigured = errors.New("no admin pin configured for tenant")

type settingsUseCase struct {
	repo   settings.Repository
	logger logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, log logger.ZapLogger) settings.UseCase {
	return &settingsUseCase{repo: repo, logger: log}
}

func (uc *settingsUseCase) GetConfig(ctx context.Context, tenantID string) (*model.ShopConfig, error) {
	return uc.repo.FindByTenant(ctx, tenantID)
}

func (uc *settingsUseCase) GetConfigBySlug(ctx context.Context, slug string) (*model.ShopConfig, error) {
	return uc.repo.FindBySlug(ctx, slug)
}

func (uc *settingsUseCase) SaveConfig(ctx context.Context, input *dto.SaveConfigInput) (*model.ShopConfig, error) {
	now := time.Now()

	existing, err := uc.repo.FindByTenant(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	config := existing
	if config == nil {
		config = &model.ShopConfig{
			BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now},
			TenantID:  input.TenantID,
		}
	}

	paymentMethods, err := json.Marshal(input.PaymentMethods)
	if err != nil {
		return nil, err
	}
	shippingMethods, err := json.Marshal(input.ShippingMethods)
	if err != nil {
		return nil, err
	}

	config.URLSlug = input.URLSlug
	config.ShopName = input.ShopName
	config.PrimaryColor = optional(input.PrimaryColor)
	config.ContactPhone = optional(input.ContactPhone)
	config.LogoURL = optional(input.LogoURL)
	config.PaymentMethods = paymentMethods
	config.ShippingMethods = shippingMethods
	config.IsActive = input.IsActive
	config.UpdatedAt = now

	if err := uc.repo.Upsert(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

func (uc *settingsUseCase) SetPin(ctx context.Context, tenantID, pin string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.repo.SetPinHash(ctx, tenantID, string(hash))
}

func (uc *settingsUseCase) VerifyPin(ctx context.Context, tenantID, pin string) (bool, error) {
	config, err := uc.repo.FindByTenant(ctx, tenantID)
	if err != nil {
		return false, err
	}
	if config == nil || config.AdminPinHash == nil {
		return false, ErrNoPinConfigured
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*config.AdminPinHash), []byte(pin)); err != nil {
		uc.logger.Warn("pin verification failed", zap.String("tenant_id", tenantID))
		return false, nil
	}
	return true, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
