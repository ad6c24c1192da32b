package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/sales"
	"github.com/saaspos/sales-service/internal/settings"
	"github.com/saaspos/sales-service/internal/weborder"
	"github.com/saaspos/sales-service/internal/weborder/dto"
	"github.com/saaspos/sales-service/pkg/logger"
	"github.com/saaspos/sales-service/pkg/metrics"
	"go.uber.org/zap"
)

var (
	ErrShopNotFound      = errors.New("shop not found")
	ErrOrderNotFound     = errors.New("web order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// allowedTransitions is the order lifecycle. Terminal states have no
// outgoing edges.
var allowedTransitions = map[string][]string{
	model.WebOrderStatusPending:   {model.WebOrderStatusConfirmed, model.WebOrderStatusCancelled},
	model.WebOrderStatusConfirmed: {model.WebOrderStatusDelivered, model.WebOrderStatusCancelled},
}

type webOrderUseCase struct {
	repo     weborder.Repository
	settings settings.UseCase
	metrics  *metrics.SalesMetrics
	logger   logger.ZapLogger
}

func NewWebOrderUseCase(
	repo weborder.Repository,
	settingsUC settings.UseCase,
	m *metrics.SalesMetrics,
	log logger.ZapLogger,
) weborder.UseCase {
	return &webOrderUseCase{
		repo:     repo,
		settings: settingsUC,
		metrics:  m,
		logger:   log,
	}
}

func (uc *webOrderUseCase) PlaceOrder(ctx context.Context, slug string, input *dto.PlaceOrderInput) (*model.WebOrder, error) {
	config, err := uc.settings.GetConfigBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if config == nil || !config.IsActive {
		return nil, ErrShopNotFound
	}

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := uc.repo.FindProductsByIDs(ctx, config.TenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	now := time.Now()
	order := &model.WebOrder{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:       config.TenantID,
		OrderNumber:    fmt.Sprintf("WEB-%d", now.UnixMilli()),
		Status:         model.WebOrderStatusPending,
		CustomerName:   input.CustomerName,
		CustomerPhone:  input.CustomerPhone,
		PaymentMethod:  input.PaymentMethod,
		DeliveryMethod: input.DeliveryMethod,
	}
	if input.DeliveryMethod == model.DeliveryMethodDelivery && input.CustomerAddress != "" {
		order.CustomerAddress = &input.CustomerAddress
	}

	var total float64
	for _, in := range input.Items {
		product, ok := products[in.ProductID]
		if !ok || !product.IsActive {
			return nil, &sales.InsufficientStockError{ProductID: in.ProductID}
		}

		unitPrice := product.Snapshot().UnitPrice()
		if in.CustomPrice != nil && *in.CustomPrice >= 0 {
			unitPrice = *in.CustomPrice
		}
		subtotal := math.Round(in.Quantity * unitPrice)
		total += subtotal

		order.Items = append(order.Items, model.WebOrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    in.Quantity,
			UnitPrice:   unitPrice,
			CustomPrice: in.CustomPrice,
			Subtotal:    subtotal,
		})
	}
	order.TotalAmount = total

	if err := uc.repo.CreateOrder(ctx, order); err != nil {
		var stockErr *sales.InsufficientStockError
		if errors.As(err, &stockErr) {
			uc.metrics.StockRejections.Inc()
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist web order: %w", err)
	}

	uc.metrics.SalesProcessed.WithLabelValues("web", "placed").Inc()
	uc.logger.Info("web order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("shop", slug),
		zap.Float64("total", order.TotalAmount),
	)

	return order, nil
}

func (uc *webOrderUseCase) GetOrder(ctx context.Context, tenantID, id string) (*model.WebOrder, error) {
	return uc.repo.FindByID(ctx, tenantID, id)
}

func (uc *webOrderUseCase) ListOrders(ctx context.Context, tenantID, status string, page, pageSize int) ([]model.WebOrder, int, error) {
	return uc.repo.FindAll(ctx, tenantID, status, page, pageSize)
}

func (uc *webOrderUseCase) Transition(ctx context.Context, tenantID, id, status string) (*model.WebOrder, error) {
	order, err := uc.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if !transitionAllowed(order.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	if status == model.WebOrderStatusCancelled {
		if err := uc.repo.CancelOrder(ctx, order, order.Status); err != nil {
			return nil, err
		}
	} else {
		if err := uc.repo.UpdateStatus(ctx, tenantID, id, order.Status, status); err != nil {
			return nil, err
		}
	}
	order.Status = status
	order.UpdatedAt = time.Now()

	uc.logger.Info("web order transitioned",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", status),
	)

	return order, nil
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
