package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/sales"
	"github.com/saaspos/sales-service/internal/sales/dto"
	"github.com/saaspos/sales-service/pkg/logger"
	"github.com/saaspos/sales-service/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The default prometheus registry rejects duplicate registration, so the
// test metrics are created once for the package.
var testMetrics = metrics.NewSalesMetrics("sales_usecase_test")

type fakeRepo struct {
	products map[string]model.Product
	created  []*model.Sale
	replaced []*model.Sale
	byID     map[string]*model.Sale

	createErr error
}

func newFakeRepo(products ...model.Product) *fakeRepo {
	r := &fakeRepo{
		products: map[string]model.Product{},
		byID:     map[string]*model.Sale{},
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeRepo) CreateSale(ctx context.Context, sale *model.Sale) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, sale)
	r.byID[sale.ID] = sale
	return nil
}

func (r *fakeRepo) ReplaceItems(ctx context.Context, sale *model.Sale, previous []model.SaleItem) error {
	r.replaced = append(r.replaced, sale)
	r.byID[sale.ID] = sale
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, tenantID, id string) (*model.Sale, error) {
	s, ok := r.byID[id]
	if !ok || s.TenantID != tenantID {
		return nil, nil
	}
	return s, nil
}

func (r *fakeRepo) FindAll(ctx context.Context, tenantID string, page, pageSize int) ([]model.Sale, int, error) {
	out := []model.Sale{}
	for _, s := range r.byID {
		if s.TenantID == tenantID {
			out = append(out, *s)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) FindProductsByIDs(ctx context.Context, tenantID string, ids []string) (map[string]model.Product, error) {
	out := map[string]model.Product{}
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.TenantID == tenantID {
			out[id] = p
		}
	}
	return out, nil
}

type fakePublisher struct {
	events []saleEvent
}

func (p *fakePublisher) Publish(ctx context.Context, key string, value []byte) error {
	var event saleEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	p.events = append(p.events, event)
	return nil
}

type fakeIdemStore struct {
	entries map[string]string
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{entries: map[string]string{}}
}

func (s *fakeIdemStore) StoreIdempotent(ctx context.Context, key, result string, ttl time.Duration) error {
	if _, ok := s.entries[key]; !ok {
		s.entries[key] = result
	}
	return nil
}

func (s *fakeIdemStore) LookupIdempotent(ctx context.Context, key string) (string, error) {
	return s.entries[key], nil
}

func floatPtr(f float64) *float64 { return &f }

func testProduct(id string, net float64, stock float64) model.Product {
	return model.Product{
		BaseModel:       model.BaseModel{ID: id},
		TenantID:        "tenant-1",
		Name:            "Product " + id,
		PriceNet:        net,
		StockCurrent:    stock,
		MeasurementUnit: "UNIT",
		IsActive:        true,
	}
}

func newTestUseCase(repo *fakeRepo) (sales.UseCase, *fakePublisher, *fakeIdemStore) {
	pub := &fakePublisher{}
	idem := newFakeIdemStore()
	uc := NewSalesUseCase(repo, pub, idem, testMetrics, logger.NewNop())
	return uc, pub, idem
}

func TestProcessSaleRepricesFromCatalog(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc, pub, _ := newTestUseCase(repo)

	sale, err := uc.ProcessSale(context.Background(), &dto.CreateSaleInput{
		TenantID:      "tenant-1",
		UserID:        "user-1",
		PaymentMethod: "CASH",
		Items: []dto.SaleItemInput{
			// The client claims a lower price; only overrides are honored.
			{ProductID: "p1", Quantity: 2, UnitPrice: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.Equal(t, 1190.0, sale.Items[0].UnitPrice)
	assert.Equal(t, 2380.0, sale.TotalAmount)
	assert.Equal(t, 2000.0, sale.SubtotalAmount)
	assert.Equal(t, 380.0, sale.TotalTax)
	assert.Equal(t, model.SaleStatusCompleted, sale.Status)
	assert.Contains(t, sale.SaleNumber, "TCK-")

	require.Len(t, pub.events, 1)
	assert.Equal(t, "SaleCompleted", pub.events[0].EventType)
}

func TestProcessSaleHonorsCustomPrice(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc, _, _ := newTestUseCase(repo)

	sale, err := uc.ProcessSale(context.Background(), &dto.CreateSaleInput{
		TenantID:      "tenant-1",
		UserID:        "user-1",
		PaymentMethod: "CASH",
		Items: []dto.SaleItemInput{
			{ProductID: "p1", Quantity: 1, UnitPrice: 1190, CustomPrice: floatPtr(900)},
		},
	})
	require.NoError(t, err)

	item := sale.Items[0]
	assert.Equal(t, 900.0, item.UnitPrice)
	require.NotNil(t, item.CustomPrice)
	assert.Equal(t, 900.0, *item.CustomPrice)
	// Net and tax are derived backwards from the charged price.
	assert.InDelta(t, 900.0/1.19, item.NetPriceAtSale, 0.01)
	assert.InDelta(t, 900.0-900.0/1.19, item.UnitTax, 0.01)
}

func TestProcessSaleUnknownProduct(t *testing.T) {
	repo := newFakeRepo()
	uc, pub, _ := newTestUseCase(repo)

	_, err := uc.ProcessSale(context.Background(), &dto.CreateSaleInput{
		TenantID:      "tenant-1",
		PaymentMethod: "CASH",
		Items:         []dto.SaleItemInput{{ProductID: "ghost", Quantity: 1}},
	})

	var stockErr *sales.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "ghost", stockErr.ProductID)
	assert.Empty(t, repo.created)
	assert.Empty(t, pub.events)
}

func TestProcessSaleStockGuardRejection(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	repo.createErr = &sales.InsufficientStockError{ProductID: "p1", ProductName: "Product p1"}
	uc, pub, _ := newTestUseCase(repo)

	_, err := uc.ProcessSale(context.Background(), &dto.CreateSaleInput{
		TenantID:      "tenant-1",
		PaymentMethod: "CASH",
		Items:         []dto.SaleItemInput{{ProductID: "p1", Quantity: 3}},
	})

	var stockErr *sales.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Empty(t, pub.events)
}

func TestProcessSaleIdempotentReplay(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc, pub, _ := newTestUseCase(repo)

	input := &dto.CreateSaleInput{
		TenantID:       "tenant-1",
		UserID:         "user-1",
		IdempotencyKey: "tap-123",
		PaymentMethod:  "CASH",
		Items:          []dto.SaleItemInput{{ProductID: "p1", Quantity: 1}},
	}

	first, err := uc.ProcessSale(context.Background(), input)
	require.NoError(t, err)

	second, err := uc.ProcessSale(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	// Only the first submission persisted and published.
	assert.Len(t, repo.created, 1)
	assert.Len(t, pub.events, 1)
}

func TestProcessSaleOrphanedIdempotencyKey(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc, _, idem := newTestUseCase(repo)

	// The stored key references a sale that no longer exists, for
	// instance after the row was purged while the key kept its TTL.
	idem.entries[idempotencyKey("tenant-1", "tap-456")] = "gone-sale"

	sale, err := uc.ProcessSale(context.Background(), &dto.CreateSaleInput{
		TenantID:       "tenant-1",
		UserID:         "user-1",
		IdempotencyKey: "tap-456",
		PaymentMethod:  "CASH",
		Items:          []dto.SaleItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.NotEqual(t, "gone-sale", sale.ID)
	assert.Len(t, repo.created, 1)
}

func TestUpdateSaleRetotalsAndMarksEdited(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10), testProduct("p2", 500, 10))
	uc, pub, _ := newTestUseCase(repo)

	sale, err := uc.ProcessSale(context.Background(), &dto.CreateSaleInput{
		TenantID:      "tenant-1",
		UserID:        "user-1",
		PaymentMethod: "CASH",
		Items: []dto.SaleItemInput{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.NoError(t, err)

	updated, err := uc.UpdateSale(context.Background(), &dto.UpdateSaleInput{
		SaleID:   sale.ID,
		TenantID: "tenant-1",
		UserID:   "admin-1",
		Notes:    "customer returned one unit",
		Items:    []dto.SaleItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.True(t, updated.WasEdited)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "customer returned one unit", *updated.Notes)
	assert.Equal(t, 1190.0, updated.TotalAmount)
	require.Len(t, repo.replaced, 1)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "SaleEdited", pub.events[1].EventType)
}

func TestUpdateSaleEmptyItemsRefunds(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc, _, _ := newTestUseCase(repo)

	sale, err := uc.ProcessSale(context.Background(), &dto.CreateSaleInput{
		TenantID:      "tenant-1",
		PaymentMethod: "CASH",
		Items:         []dto.SaleItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := uc.UpdateSale(context.Background(), &dto.UpdateSaleInput{
		SaleID:   sale.ID,
		TenantID: "tenant-1",
		Notes:    "full refund",
		Items:    []dto.SaleItemInput{},
	})
	require.NoError(t, err)

	assert.Equal(t, model.SaleStatusRefunded, updated.Status)
	assert.Zero(t, updated.TotalAmount)
}

func TestUpdateSaleNotFound(t *testing.T) {
	repo := newFakeRepo()
	uc, _, _ := newTestUseCase(repo)

	_, err := uc.UpdateSale(context.Background(), &dto.UpdateSaleInput{
		SaleID:   "missing",
		TenantID: "tenant-1",
		Notes:    "whatever",
	})
	assert.ErrorIs(t, err, sales.ErrSaleNotFound)
}
