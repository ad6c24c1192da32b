package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/sales"
	"github.com/saaspos/sales-service/internal/weborder"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateOrder(ctx context.Context, order *model.WebOrder) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		var after float64
		err := tx.GetContext(ctx, &after, `
            UPDATE products
            SET stock_current = stock_current - $1, updated_at = now()
            WHERE tenant_id = $2 AND id = $3 AND stock_current >= $1
            RETURNING stock_current
        `, item.Quantity, order.TenantID, item.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &sales.InsufficientStockError{ProductID: item.ProductID, ProductName: item.ProductName}
			}
			return fmt.Errorf("failed to reserve stock: %w", err)
		}
		if err := r.insertMovement(ctx, tx, order, item, -item.Quantity, after, "Web order "+order.OrderNumber); err != nil {
			return err
		}
	}

	headerQuery := `
        INSERT INTO web_orders (
            id, tenant_id, order_number, status, customer_name, customer_phone,
            customer_address, payment_method, delivery_method, total_amount,
            created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :order_number, :status, :customer_name, :customer_phone,
            :customer_address, :payment_method, :delivery_method, :total_amount,
            :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, order); err != nil {
		return fmt.Errorf("failed to insert web order: %w", err)
	}

	itemQuery := `
        INSERT INTO web_order_items (
            id, order_id, product_id, product_name, quantity, unit_price,
            custom_price, subtotal
        )
        VALUES (
            :id, :order_id, :product_id, :product_name, :quantity, :unit_price,
            :custom_price, :subtotal
        )
    `
	for i := range order.Items {
		if _, err := tx.NamedExecContext(ctx, itemQuery, &order.Items[i]); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.WebOrder, error) {
	var order model.WebOrder
	err := r.DB.GetContext(ctx, &order, `SELECT * FROM web_orders WHERE tenant_id = $1 AND id = $2 LIMIT 1`, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &order.Items,
		`SELECT * FROM web_order_items WHERE order_id = $1 ORDER BY product_name ASC`, id)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *PGRepository) FindAll(ctx context.Context, tenantID, status string, page, pageSize int) ([]model.WebOrder, int, error) {
	conditions := "tenant_id = $1"
	args := []interface{}{tenantID}
	if status != "" {
		conditions += " AND status = $2"
		args = append(args, status)
	}

	var count int
	if err := r.DB.GetContext(ctx, &count, "SELECT count(*) FROM web_orders WHERE "+conditions, args...); err != nil {
		return nil, 0, err
	}

	if pageSize <= 0 {
		pageSize = 25
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(
		"SELECT * FROM web_orders WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		conditions, pageSize, offset,
	)

	var orders []model.WebOrder
	if err := r.DB.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (r *PGRepository) UpdateStatus(ctx context.Context, tenantID, id, from, to string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE web_orders SET status = $1, updated_at = now() WHERE tenant_id = $2 AND id = $3 AND status = $4`,
		to, tenantID, id, from,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return weborder.ErrStatusConflict
	}
	return nil
}

func (r *PGRepository) CancelOrder(ctx context.Context, order *model.WebOrder, from string) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Flip the status first, guarded by the expected previous status.
	// Only the request that wins this write releases the stock below;
	// anything else rolls back having changed nothing.
	res, err := tx.ExecContext(ctx,
		`UPDATE web_orders SET status = $1, updated_at = now() WHERE tenant_id = $2 AND id = $3 AND status = $4`,
		model.WebOrderStatusCancelled, order.TenantID, order.ID, from,
	)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return weborder.ErrStatusConflict
	}

	for _, item := range order.Items {
		var after float64
		if err := tx.GetContext(ctx, &after, `
            UPDATE products
            SET stock_current = stock_current + $1, updated_at = now()
            WHERE tenant_id = $2 AND id = $3
            RETURNING stock_current
        `, item.Quantity, order.TenantID, item.ProductID); err != nil {
			return fmt.Errorf("failed to release stock: %w", err)
		}
		if err := r.insertMovement(ctx, tx, order, item, item.Quantity, after, "Web order cancelled "+order.OrderNumber); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PGRepository) insertMovement(ctx context.Context, tx *sqlx.Tx, order *model.WebOrder, item model.WebOrderItem, change, after float64, notes string) error {
	query := `
        INSERT INTO inventory_movements (
            id, tenant_id, product_id, movement_type, quantity_change,
            quantity_before, quantity_after, reference_type, reference_id,
            notes, created_by, created_at
        )
        VALUES (
            :id, :tenant_id, :product_id, :movement_type, :quantity_change,
            :quantity_before, :quantity_after, :reference_type, :reference_id,
            :notes, :created_by, :created_at
        )
    `
	refType := "web_order"
	movement := &model.InventoryMovement{
		ID:             uuid.New().String(),
		TenantID:       order.TenantID,
		ProductID:      item.ProductID,
		MovementType:   model.MovementTypeWebOrder,
		QuantityChange: change,
		QuantityBefore: after - change,
		QuantityAfter:  after,
		ReferenceType:  &refType,
		ReferenceID:    &order.ID,
		Notes:          notes,
		CreatedAt:      time.Now(),
	}
	if _, err := tx.NamedExecContext(ctx, query, movement); err != nil {
		return fmt.Errorf("failed to insert inventory movement: %w", err)
	}
	return nil
}

func (r *PGRepository) FindProductsByIDs(ctx context.Context, tenantID string, ids []string) (map[string]model.Product, error) {
	if len(ids) == 0 {
		return map[string]model.Product{}, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM products WHERE tenant_id = ? AND id IN (?)`, tenantID, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var products []model.Product
	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}
