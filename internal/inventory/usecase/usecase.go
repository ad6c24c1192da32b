package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saaspos/sales-service/internal/inventory"
	"github.com/saaspos/sales-service/internal/inventory/dto"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrProductMissing = errors.New("product not found")
	ErrStockNegative  = errors.New("adjustment would leave stock negative")
	ErrLockBusy       = errors.New("inventory busy, please retry")
)

// Locker is the distributed lock surface the use case needs, satisfied
// by cache.RedisClient.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}

type inventoryUseCase struct {
	repo   inventory.Repository
	locks  Locker
	logger logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, locks Locker, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:   repo,
		locks:  locks,
		logger: log,
	}
}

func (uc *inventoryUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 100 {
		filters.PageSize = 25
	}
	return uc.repo.FindMovements(ctx, filters)
}

func (uc *inventoryUseCase) AdjustStock(ctx context.Context, input *dto.AdjustStockInput) (*model.InventoryMovement, error) {
	// Manual adjustments race with concurrent sales on the same product,
	// so the read-modify-write runs under a per-product lock.
	lockKey := fmt.Sprintf("lock:inventory:%s:%s", input.TenantID, input.ProductID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < 3; i++ {
		ok, err := uc.locks.AcquireLock(ctx, lockKey, lockValue, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire inventory lock", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, ErrLockBusy
	}
	defer uc.locks.ReleaseLock(ctx, lockKey, lockValue)

	stock, err := uc.repo.GetStock(ctx, input.TenantID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, ErrProductMissing
	}

	before := *stock
	after := before + input.QuantityChange
	if after < 0 {
		return nil, ErrStockNegative
	}

	var createdBy *string
	if input.UserID != "" {
		createdBy = &input.UserID
	}

	movement := &model.InventoryMovement{
		ID:             uuid.New().String(),
		TenantID:       input.TenantID,
		ProductID:      input.ProductID,
		MovementType:   model.MovementTypeAdjustment,
		QuantityChange: input.QuantityChange,
		QuantityBefore: before,
		QuantityAfter:  after,
		Notes:          input.Reason,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	}

	if err := uc.repo.AdjustStockWithMovement(ctx, input.TenantID, input.ProductID, after, movement); err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	uc.logger.Info("stock adjusted",
		zap.String("product_id", input.ProductID),
		zap.Float64("quantity_before", before),
		zap.Float64("quantity_after", after),
	)

	return movement, nil
}
