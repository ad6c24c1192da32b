package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/saaspos/sales-service/internal/cart"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/sales"
	"github.com/saaspos/sales-service/internal/sales/dto"
	"github.com/saaspos/sales-service/pkg/logger"
	"github.com/saaspos/sales-service/pkg/metrics"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

// EventPublisher pushes domain events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// IdempotencyStore remembers completed submissions so a double-tapped
// checkout cannot charge twice.
type IdempotencyStore interface {
	StoreIdempotent(ctx context.Context, key, result string, ttl time.Duration) error
	LookupIdempotent(ctx context.Context, key string) (string, error)
}

type saleEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   *model.Sale `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type salesUseCase struct {
	repo      sales.Repository
	publisher EventPublisher
	idem      IdempotencyStore
	metrics   *metrics.SalesMetrics
	logger    logger.ZapLogger
}

func NewSalesUseCase(
	repo sales.Repository,
	publisher EventPublisher,
	idem IdempotencyStore,
	m *metrics.SalesMetrics,
	log logger.ZapLogger,
) sales.UseCase {
	return &salesUseCase{
		repo:      repo,
		publisher: publisher,
		idem:      idem,
		metrics:   m,
		logger:    log,
	}
}

func (uc *salesUseCase) ProcessSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error) {
	if input.IdempotencyKey != "" {
		key := idempotencyKey(input.TenantID, input.IdempotencyKey)
		saleID, err := uc.idem.LookupIdempotent(ctx, key)
		if err != nil {
			uc.logger.Warn("idempotency lookup failed", zap.Error(err))
		}
		if saleID != "" {
			replayed, err := uc.repo.FindByID(ctx, input.TenantID, saleID)
			if err != nil {
				return nil, err
			}
			// The key can outlive the sale row. Treat that as a miss and
			// process the submission fresh.
			if replayed != nil {
				uc.logger.Info("replayed sale submission", zap.String("sale_id", saleID))
				return replayed, nil
			}
			uc.logger.Warn("idempotency key points at missing sale", zap.String("sale_id", saleID))
		}
	}

	sale, err := uc.buildSale(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CreateSale(ctx, sale); err != nil {
		if stockErr, ok := asStockError(err); ok {
			uc.metrics.StockRejections.Inc()
			uc.logger.Warn("sale rejected by stock guard",
				zap.String("tenant_id", input.TenantID),
				zap.String("product_id", stockErr.ProductID),
			)
			return nil, err
		}
		return nil, fmt.Errorf("failed to persist sale: %w", err)
	}

	if input.IdempotencyKey != "" {
		key := idempotencyKey(input.TenantID, input.IdempotencyKey)
		if err := uc.idem.StoreIdempotent(ctx, key, sale.ID, idempotencyTTL); err != nil {
			uc.logger.Warn("failed to record idempotency key", zap.Error(err))
		}
	}

	uc.publish(ctx, "SaleCompleted", sale)
	uc.metrics.SalesProcessed.WithLabelValues("pos", "completed").Inc()
	uc.metrics.SaleAmount.Observe(sale.TotalAmount)

	uc.logger.Info("sale completed",
		zap.String("sale_number", sale.SaleNumber),
		zap.Float64("total", sale.TotalAmount),
		zap.Int("items", len(sale.Items)),
	)

	return sale, nil
}

// buildSale re-prices every item from the authoritative catalog row. The
// client's unitPrice is advisory; only its customPrice override is
// honored, and recorded next to the catalog-derived values for audit.
func (uc *salesUseCase) buildSale(ctx context.Context, input *dto.CreateSaleInput) (*model.Sale, error) {
	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := uc.repo.FindProductsByIDs(ctx, input.TenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	now := time.Now()
	sale := &model.Sale{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:      input.TenantID,
		UserID:        input.UserID,
		SaleNumber:    fmt.Sprintf("TCK-%d", now.UnixMilli()),
		Status:        model.SaleStatusCompleted,
		PaymentMethod: input.PaymentMethod,
	}

	var total float64
	for _, in := range input.Items {
		product, ok := products[in.ProductID]
		if !ok {
			return nil, &sales.InsufficientStockError{ProductID: in.ProductID}
		}
		item := priceItem(&product, in)
		item.SaleID = sale.ID
		total += item.Subtotal
		sale.Items = append(sale.Items, item)
	}

	sale.TotalAmount = total
	sale.SubtotalAmount = math.Round(total / (1 + cart.DefaultTaxPercent/100))
	sale.TotalTax = total - sale.SubtotalAmount

	return sale, nil
}

// priceItem applies the flexible-pricing rule: an override wins over the
// catalog price, and net/tax are recomputed backwards from the charged
// gross amount.
func priceItem(product *model.Product, in dto.SaleItemInput) model.SaleItem {
	snap := product.Snapshot()

	unitPrice := snap.UnitPrice()
	if in.CustomPrice != nil && *in.CustomPrice >= 0 {
		unitPrice = *in.CustomPrice
	}

	taxPercent := cart.DefaultTaxPercent
	if product.TaxPercent != nil {
		taxPercent = *product.TaxPercent
	}
	netPrice := unitPrice / (1 + taxPercent/100)

	costPrice := 0.0
	if product.CostPrice != nil {
		costPrice = *product.CostPrice
	}

	return model.SaleItem{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		ProductName:     product.Name,
		Quantity:        in.Quantity,
		UnitPrice:       unitPrice,
		CustomPrice:     in.CustomPrice,
		NetPriceAtSale:  netPrice,
		UnitTax:         unitPrice - netPrice,
		CostPriceAtSale: costPrice,
		Subtotal:        math.Round(in.Quantity * unitPrice),
	}
}

func (uc *salesUseCase) GetSale(ctx context.Context, tenantID, id string) (*model.Sale, error) {
	return uc.repo.FindByID(ctx, tenantID, id)
}

func (uc *salesUseCase) ListSales(ctx context.Context, tenantID string, page, pageSize int) ([]model.Sale, int, error) {
	return uc.repo.FindAll(ctx, tenantID, page, pageSize)
}

func (uc *salesUseCase) UpdateSale(ctx context.Context, input *dto.UpdateSaleInput) (*model.Sale, error) {
	existing, err := uc.repo.FindByID(ctx, input.TenantID, input.SaleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, sales.ErrSaleNotFound
	}

	previous := existing.Items

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := uc.repo.FindProductsByIDs(ctx, input.TenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	existing.Items = nil
	var total float64
	for _, in := range input.Items {
		product, ok := products[in.ProductID]
		if !ok {
			return nil, &sales.InsufficientStockError{ProductID: in.ProductID}
		}
		item := priceItem(&product, in)
		item.SaleID = existing.ID
		total += item.Subtotal
		existing.Items = append(existing.Items, item)
	}

	existing.TotalAmount = total
	existing.SubtotalAmount = math.Round(total / (1 + cart.DefaultTaxPercent/100))
	existing.TotalTax = total - existing.SubtotalAmount
	existing.Notes = &input.Notes
	existing.WasEdited = true
	if len(existing.Items) == 0 {
		existing.Status = model.SaleStatusRefunded
	}
	existing.UpdatedAt = time.Now()
	existing.UserID = input.UserID

	if err := uc.repo.ReplaceItems(ctx, existing, previous); err != nil {
		if _, ok := asStockError(err); ok {
			uc.metrics.StockRejections.Inc()
			return nil, err
		}
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}

	uc.publish(ctx, "SaleEdited", existing)
	uc.metrics.SalesProcessed.WithLabelValues("pos", "edited").Inc()

	return existing, nil
}

func (uc *salesUseCase) publish(ctx context.Context, eventType string, sale *model.Sale) {
	event := saleEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload:   sale,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to marshal sale event", zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, sale.TenantID, payload); err != nil {
		// The sale is already committed; the event stream lags behind.
		uc.logger.Error("failed to publish sale event",
			zap.String("event_type", eventType),
			zap.String("sale_id", sale.ID),
			zap.Error(err),
		)
	}
}

func idempotencyKey(tenantID, key string) string {
	return fmt.Sprintf("idem:sale:%s:%s", tenantID, key)
}

func asStockError(err error) (*sales.InsufficientStockError, bool) {
	var stockErr *sales.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}
