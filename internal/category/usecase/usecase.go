package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/saaspos/sales-service/internal/category"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/pkg/logger"
)

var ErrCategoryMissing = errors.New("category not found")

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{repo: repo, logger: log}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, tenantID, name, description string) (*model.Category, error) {
	now := time.Now()
	c := &model.Category{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:  tenantID,
		Name:      name,
		IsActive:  true,
	}
	if description != "" {
		c.Description = &description
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, tenantID string) ([]model.Category, error) {
	return uc.repo.FindAll(ctx, tenantID)
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, tenantID, id, name, description string, isActive bool) (*model.Category, error) {
	existing, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrCategoryMissing
	}

	existing.Name = name
	existing.Description = nil
	if description != "" {
		existing.Description = &description
	}
	existing.IsActive = isActive
	existing.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}
