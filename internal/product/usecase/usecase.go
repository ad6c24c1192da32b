package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saaspos/sales-service/internal/cart"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/product"
	"github.com/saaspos/sales-service/internal/product/dto"
	"github.com/saaspos/sales-service/pkg/cache"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrSKUTaken       = errors.New("sku already exists")
	ErrBarcodeTaken   = errors.New("barcode already exists")
	ErrProductMissing = errors.New("product not found")
)

const listCacheTTL = 2 * time.Minute

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	unique, err := uc.repo.IsSKUUnique(ctx, input.TenantID, input.SKU, "")
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, ErrSKUTaken
	}

	if input.Barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, input.TenantID, input.Barcode, "")
		if err != nil {
			return nil, err
		}
		if !unique {
			return nil, ErrBarcodeTaken
		}
	}

	now := time.Now()
	p := &model.Product{
		BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:        input.TenantID,
		CategoryID:      optional(input.CategoryID),
		SKU:             input.SKU,
		Barcode:         optional(input.Barcode),
		Name:            input.Name,
		Description:     optional(input.Description),
		PriceNet:        input.PriceNet,
		PriceFinal:      input.PriceFinal,
		CostPrice:       input.CostPrice,
		TaxPercent:      input.TaxPercent,
		IsTaxIncluded:   input.IsTaxIncluded,
		StockCurrent:    input.StockCurrent,
		StockMin:        input.StockMin,
		MeasurementUnit: input.MeasurementUnit,
		ImageURL:        optional(input.ImageURL),
		IsActive:        true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background(), input.TenantID)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, tenantID, id string) (*model.Product, error) {
	return uc.repo.FindByID(ctx, tenantID, id)
}

func (uc *productUseCase) GetSnapshot(ctx context.Context, tenantID, id string) (*cart.Snapshot, error) {
	p, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, ErrProductMissing
	}
	snap := p.Snapshot()
	return &snap, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, keyErr := uc.listCacheKey(filters)
	if keyErr == nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Count, nil
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if keyErr == nil {
		payload, err := json.Marshal(struct {
			Products []model.Product
			Count    int
		}{products, count})
		if err == nil {
			if err := uc.cache.Client.Set(ctx, cacheKey, payload, listCacheTTL).Err(); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}

	return products, count, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	existing, err := uc.repo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrProductMissing
	}

	unique, err := uc.repo.IsSKUUnique(ctx, input.TenantID, input.SKU, input.ID)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, ErrSKUTaken
	}

	existing.CategoryID = optional(input.CategoryID)
	existing.SKU = input.SKU
	existing.Barcode = optional(input.Barcode)
	existing.Name = input.Name
	existing.Description = optional(input.Description)
	existing.PriceNet = input.PriceNet
	existing.PriceFinal = input.PriceFinal
	existing.CostPrice = input.CostPrice
	existing.TaxPercent = input.TaxPercent
	existing.IsTaxIncluded = input.IsTaxIncluded
	existing.StockCurrent = input.StockCurrent
	existing.StockMin = input.StockMin
	existing.MeasurementUnit = input.MeasurementUnit
	existing.ImageURL = optional(input.ImageURL)
	existing.IsActive = input.IsActive
	existing.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background(), input.TenantID)

	return existing, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, tenantID, id string) error {
	if err := uc.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	go uc.invalidateListCache(context.Background(), tenantID)
	return nil
}

func (uc *productUseCase) listCacheKey(filters *dto.ProductFilters) (string, error) {
	raw, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:%s:%x", filters.TenantID, md5.Sum(raw)), nil
}

func (uc *productUseCase) invalidateListCache(ctx context.Context, tenantID string) {
	pattern := fmt.Sprintf("products:%s:*", tenantID)
	iter := uc.cache.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := uc.cache.Client.Del(ctx, iter.Val()).Err(); err != nil {
			uc.logger.Warn("failed to invalidate product cache", zap.String("key", iter.Val()), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		uc.logger.Warn("product cache scan failed", zap.Error(err))
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
