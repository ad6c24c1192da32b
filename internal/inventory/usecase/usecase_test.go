package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/saaspos/sales-service/internal/inventory/dto"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	stock     map[string]float64
	movements []model.InventoryMovement
	written   []*model.InventoryMovement

	adjustErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stock: map[string]float64{}}
}

func (r *fakeRepo) FindMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	return r.movements, len(r.movements), nil
}

func (r *fakeRepo) GetStock(ctx context.Context, tenantID, productID string) (*float64, error) {
	s, ok := r.stock[tenantID+"/"+productID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeRepo) AdjustStockWithMovement(ctx context.Context, tenantID, productID string, newStock float64, movement *model.InventoryMovement) error {
	if r.adjustErr != nil {
		return r.adjustErr
	}
	r.stock[tenantID+"/"+productID] = newStock
	r.written = append(r.written, movement)
	return nil
}

type fakeLock struct {
	held     map[string]string
	busy     bool
	acquires int
	releases int
}

func newFakeLock() *fakeLock {
	return &fakeLock{held: map[string]string{}}
}

func (l *fakeLock) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.acquires++
	if l.busy {
		return false, nil
	}
	if _, taken := l.held[key]; taken {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLock) ReleaseLock(ctx context.Context, key, value string) error {
	l.releases++
	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}

func TestAdjustStockWritesMovement(t *testing.T) {
	repo := newFakeRepo()
	repo.stock["tenant-1/p1"] = 10
	lock := newFakeLock()
	uc := NewInventoryUseCase(repo, lock, logger.NewNop())

	movement, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		TenantID:       "tenant-1",
		UserID:         "user-1",
		ProductID:      "p1",
		QuantityChange: -3,
		Reason:         "Merma bodega",
	})
	require.NoError(t, err)

	assert.Equal(t, model.MovementTypeAdjustment, movement.MovementType)
	assert.Equal(t, 10.0, movement.QuantityBefore)
	assert.Equal(t, 7.0, movement.QuantityAfter)
	assert.Equal(t, -3.0, movement.QuantityChange)
	assert.Equal(t, "Merma bodega", movement.Notes)
	require.NotNil(t, movement.CreatedBy)
	assert.Equal(t, "user-1", *movement.CreatedBy)

	assert.Equal(t, 7.0, repo.stock["tenant-1/p1"])
	require.Len(t, repo.written, 1)

	// Lock is released once the adjustment lands.
	assert.Empty(t, lock.held)
	assert.Equal(t, 1, lock.releases)
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	repo := newFakeRepo()
	repo.stock["tenant-1/p1"] = 2
	lock := newFakeLock()
	uc := NewInventoryUseCase(repo, lock, logger.NewNop())

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		TenantID:       "tenant-1",
		ProductID:      "p1",
		QuantityChange: -5,
		Reason:         "Merma bodega",
	})
	assert.ErrorIs(t, err, ErrStockNegative)

	// Nothing written, stock untouched, lock released.
	assert.Empty(t, repo.written)
	assert.Equal(t, 2.0, repo.stock["tenant-1/p1"])
	assert.Empty(t, lock.held)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	repo := newFakeRepo()
	lock := newFakeLock()
	uc := NewInventoryUseCase(repo, lock, logger.NewNop())

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		TenantID:       "tenant-1",
		ProductID:      "ghost",
		QuantityChange: 1,
		Reason:         "Recuento inicial",
	})
	assert.ErrorIs(t, err, ErrProductMissing)
}

func TestAdjustStockLockBusy(t *testing.T) {
	repo := newFakeRepo()
	repo.stock["tenant-1/p1"] = 10
	lock := newFakeLock()
	lock.busy = true
	uc := NewInventoryUseCase(repo, lock, logger.NewNop())

	_, err := uc.AdjustStock(context.Background(), &dto.AdjustStockInput{
		TenantID:       "tenant-1",
		ProductID:      "p1",
		QuantityChange: 1,
		Reason:         "Recuento inicial",
	})
	assert.ErrorIs(t, err, ErrLockBusy)

	// All retry attempts exhausted, no write happened.
	assert.Equal(t, 3, lock.acquires)
	assert.Empty(t, repo.written)
}

func TestListMovementsClampsPaging(t *testing.T) {
	repo := newFakeRepo()
	uc := NewInventoryUseCase(repo, newFakeLock(), logger.NewNop())

	filters := &dto.MovementFilters{TenantID: "tenant-1", Page: 0, PageSize: 500}
	_, _, err := uc.ListMovements(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 1, filters.Page)
	assert.Equal(t, 25, filters.PageSize)
}
