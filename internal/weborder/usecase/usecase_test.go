package usecase

import (
	"context"
	"testing"

	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/sales"
	settingsdto "github.com/saaspos/sales-service/internal/settings/dto"
	"github.com/saaspos/sales-service/internal/weborder"
	"github.com/saaspos/sales-service/internal/weborder/dto"
	"github.com/saaspos/sales-service/pkg/logger"
	"github.com/saaspos/sales-service/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.NewSalesMetrics("weborder_usecase_test")

type fakeRepo struct {
	products map[string]model.Product
	orders   map[string]*model.WebOrder
	released []*model.WebOrder

	createErr error
	// raceLoser makes the next conditional status write fail as if a
	// concurrent request already moved the order.
	raceLoser bool
}

func newFakeRepo(products ...model.Product) *fakeRepo {
	r := &fakeRepo{
		products: map[string]model.Product{},
		orders:   map[string]*model.WebOrder{},
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeRepo) CreateOrder(ctx context.Context, order *model.WebOrder) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, tenantID, id string) (*model.WebOrder, error) {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return o, nil
}

func (r *fakeRepo) FindAll(ctx context.Context, tenantID, status string, page, pageSize int) ([]model.WebOrder, int, error) {
	out := []model.WebOrder{}
	for _, o := range r.orders {
		if o.TenantID == tenantID && (status == "" || o.Status == status) {
			out = append(out, *o)
		}
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, tenantID, id, from, to string) error {
	o, ok := r.orders[id]
	if r.raceLoser || !ok || o.TenantID != tenantID || o.Status != from {
		return weborder.ErrStatusConflict
	}
	o.Status = to
	return nil
}

func (r *fakeRepo) CancelOrder(ctx context.Context, order *model.WebOrder, from string) error {
	o, ok := r.orders[order.ID]
	if r.raceLoser || !ok || o.TenantID != order.TenantID || o.Status != from {
		return weborder.ErrStatusConflict
	}
	o.Status = model.WebOrderStatusCancelled
	r.released = append(r.released, order)
	return nil
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

type fakeSettings struct {
	config *model.ShopConfig
}

func (s *fakeSettings) GetConfig(ctx context.Context, tenantID string) (*model.ShopConfig, error) {
	return s.config, nil
}

func (s *fakeSettings) GetConfigBySlug(ctx context.Context, slug string) (*model.ShopConfig, error) {
	if s.config != nil && s.config.URLSlug == slug {
		return s.config, nil
	}
	return nil, nil
}

func (s *fakeSettings) SaveConfig(ctx context.Context, input *settingsdto.SaveConfigInput) (*model.ShopConfig, error) {
	return s.config, nil
}

func (s *fakeSettings) SetPin(ctx context.Context, tenantID, pin string) error { return nil }

func (s *fakeSettings) VerifyPin(ctx context.Context, tenantID, pin string) (bool, error) {
	return false, nil
}

func activeShop(slug string) *fakeSettings {
	return &fakeSettings{config: &model.ShopConfig{
		TenantID: "tenant-1",
		URLSlug:  slug,
		ShopName: "Test Shop",
		IsActive: true,
	}}
}

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

func newTestUseCase(repo *fakeRepo, shop *fakeSettings) weborder.UseCase {
	return NewWebOrderUseCase(repo, shop, testMetrics, logger.NewNop())
}

func TestPlaceOrderPricesFromCatalog(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc := newTestUseCase(repo, activeShop("test-shop"))

	order, err := uc.PlaceOrder(context.Background(), "test-shop", &dto.PlaceOrderInput{
		CustomerName:   "Ana Rojas",
		CustomerPhone:  "+56911112222",
		PaymentMethod:  "TRANSFER",
		DeliveryMethod: model.DeliveryMethodPickup,
		Items:          []dto.OrderItemInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, model.WebOrderStatusPending, order.Status)
	assert.Contains(t, order.OrderNumber, "WEB-")
	assert.Equal(t, 2380.0, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 1190.0, order.Items[0].UnitPrice)
	assert.Nil(t, order.CustomerAddress)
}

func TestPlaceOrderDeliveryKeepsAddress(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc := newTestUseCase(repo, activeShop("test-shop"))

	order, err := uc.PlaceOrder(context.Background(), "test-shop", &dto.PlaceOrderInput{
		CustomerName:    "Ana Rojas",
		CustomerPhone:   "+56911112222",
		CustomerAddress: "Av. Siempre Viva 742",
		PaymentMethod:   "CASH",
		DeliveryMethod:  model.DeliveryMethodDelivery,
		Items:           []dto.OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, order.CustomerAddress)
	assert.Equal(t, "Av. Siempre Viva 742", *order.CustomerAddress)
}

func TestPlaceOrderUnknownShop(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc := newTestUseCase(repo, activeShop("test-shop"))

	_, err := uc.PlaceOrder(context.Background(), "ghost-shop", &dto.PlaceOrderInput{
		CustomerName:   "Ana Rojas",
		CustomerPhone:  "+56911112222",
		PaymentMethod:  "CASH",
		DeliveryMethod: model.DeliveryMethodPickup,
		Items:          []dto.OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrShopNotFound)
}

func TestPlaceOrderStockRejection(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 1))
	repo.createErr = &sales.InsufficientStockError{ProductID: "p1", ProductName: "Product p1"}
	uc := newTestUseCase(repo, activeShop("test-shop"))

	_, err := uc.PlaceOrder(context.Background(), "test-shop", &dto.PlaceOrderInput{
		CustomerName:   "Ana Rojas",
		CustomerPhone:  "+56911112222",
		PaymentMethod:  "CASH",
		DeliveryMethod: model.DeliveryMethodPickup,
		Items:          []dto.OrderItemInput{{ProductID: "p1", Quantity: 5}},
	})

	var stockErr *sales.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p1", stockErr.ProductID)
}

func TestTransitionLifecycle(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc := newTestUseCase(repo, activeShop("test-shop"))

	order, err := uc.PlaceOrder(context.Background(), "test-shop", &dto.PlaceOrderInput{
		CustomerName:   "Ana Rojas",
		CustomerPhone:  "+56911112222",
		PaymentMethod:  "CASH",
		DeliveryMethod: model.DeliveryMethodPickup,
		Items:          []dto.OrderItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	// PENDING cannot jump straight to DELIVERED.
	_, err = uc.Transition(context.Background(), "tenant-1", order.ID, model.WebOrderStatusDelivered)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	confirmed, err := uc.Transition(context.Background(), "tenant-1", order.ID, model.WebOrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.WebOrderStatusConfirmed, confirmed.Status)
	assert.Empty(t, repo.released)

	delivered, err := uc.Transition(context.Background(), "tenant-1", order.ID, model.WebOrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, model.WebOrderStatusDelivered, delivered.Status)

	// Delivered is terminal.
	_, err = uc.Transition(context.Background(), "tenant-1", order.ID, model.WebOrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionCancelReleasesStock(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc := newTestUseCase(repo, activeShop("test-shop"))

	order, err := uc.PlaceOrder(context.Background(), "test-shop", &dto.PlaceOrderInput{
		CustomerName:   "Ana Rojas",
		CustomerPhone:  "+56911112222",
		PaymentMethod:  "CASH",
		DeliveryMethod: model.DeliveryMethodPickup,
		Items:          []dto.OrderItemInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)

	cancelled, err := uc.Transition(context.Background(), "tenant-1", order.ID, model.WebOrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.WebOrderStatusCancelled, cancelled.Status)
	require.Len(t, repo.released, 1)
	assert.Equal(t, order.ID, repo.released[0].ID)
}

func TestTransitionCancelLosesRace(t *testing.T) {
	repo := newFakeRepo(testProduct("p1", 1000, 10))
	uc := newTestUseCase(repo, activeShop("test-shop"))

	order, err := uc.PlaceOrder(context.Background(), "test-shop", &dto.PlaceOrderInput{
		CustomerName:   "Ana Rojas",
		CustomerPhone:  "+56911112222",
		PaymentMethod:  "CASH",
		DeliveryMethod: model.DeliveryMethodPickup,
		Items:          []dto.OrderItemInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)

	// A second admin cancels between our read and our write. The losing
	// request must surface the conflict and release nothing.
	repo.raceLoser = true
	_, err = uc.Transition(context.Background(), "tenant-1", order.ID, model.WebOrderStatusCancelled)
	assert.ErrorIs(t, err, weborder.ErrStatusConflict)
	assert.Empty(t, repo.released)
}

func TestTransitionUnknownOrder(t *testing.T) {
	repo := newFakeRepo()
	uc := newTestUseCase(repo, activeShop("test-shop"))

	_, err := uc.Transition(context.Background(), "tenant-1", "missing", model.WebOrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
