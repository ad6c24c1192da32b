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
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateSale(ctx context.Context, sale *model.Sale) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range sale.Items {
		item := &sale.Items[i]
		after, err := r.deductStock(ctx, tx, sale.TenantID, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if err := r.insertMovement(ctx, tx, &model.InventoryMovement{
			ID:             uuid.New().String(),
			TenantID:       sale.TenantID,
			ProductID:      item.ProductID,
			MovementType:   model.MovementTypeSale,
			QuantityChange: -item.Quantity,
			QuantityBefore: after + item.Quantity,
			QuantityAfter:  after,
			ReferenceType:  strPtr("sale"),
			ReferenceID:    &sale.ID,
			Notes:          "POS sale " + sale.SaleNumber,
			CreatedBy:      &sale.UserID,
			CreatedAt:      sale.CreatedAt,
		}); err != nil {
			return err
		}
	}

	headerQuery := `
        INSERT INTO sales (
            id, tenant_id, user_id, sale_number, status, total_amount,
            subtotal_amount, total_tax, payment_method, notes, was_edited,
            created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :user_id, :sale_number, :status, :total_amount,
            :subtotal_amount, :total_tax, :payment_method, :notes, :was_edited,
            :created_at, :updated_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, sale); err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}

	if err := r.insertItems(ctx, tx, sale.Items); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) ReplaceItems(ctx context.Context, sale *model.Sale, previous []model.SaleItem) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	// Give the previous quantities back before deducting the new ones, so
	// an edit that only lowers a quantity can never fail the stock guard.
	for _, item := range previous {
		var after float64
		err := tx.GetContext(ctx, &after, `
            UPDATE products
            SET stock_current = stock_current + $1, updated_at = now()
            WHERE tenant_id = $2 AND id = $3
            RETURNING stock_current
        `, item.Quantity, sale.TenantID, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
		if err := r.insertMovement(ctx, tx, &model.InventoryMovement{
			ID:             uuid.New().String(),
			TenantID:       sale.TenantID,
			ProductID:      item.ProductID,
			MovementType:   model.MovementTypeSaleEdit,
			QuantityChange: item.Quantity,
			QuantityBefore: after - item.Quantity,
			QuantityAfter:  after,
			ReferenceType:  strPtr("sale"),
			ReferenceID:    &sale.ID,
			Notes:          "Sale edit restore " + sale.SaleNumber,
			CreatedBy:      &sale.UserID,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, sale.ID); err != nil {
		return fmt.Errorf("failed to delete previous items: %w", err)
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		after, err := r.deductStock(ctx, tx, sale.TenantID, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if err := r.insertMovement(ctx, tx, &model.InventoryMovement{
			ID:             uuid.New().String(),
			TenantID:       sale.TenantID,
			ProductID:      item.ProductID,
			MovementType:   model.MovementTypeSaleEdit,
			QuantityChange: -item.Quantity,
			QuantityBefore: after + item.Quantity,
			QuantityAfter:  after,
			ReferenceType:  strPtr("sale"),
			ReferenceID:    &sale.ID,
			Notes:          "Sale edit " + sale.SaleNumber,
			CreatedBy:      &sale.UserID,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
	}

	headerQuery := `
        UPDATE sales SET
            status = :status,
            total_amount = :total_amount,
            subtotal_amount = :subtotal_amount,
            total_tax = :total_tax,
            notes = :notes,
            was_edited = :was_edited,
            updated_at = :updated_at
        WHERE tenant_id = :tenant_id AND id = :id
    `
	if _, err := tx.NamedExecContext(ctx, headerQuery, sale); err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}

	if err := r.insertItems(ctx, tx, sale.Items); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Sale, error) {
	var sale model.Sale
	err := r.DB.GetContext(ctx, &sale, `SELECT * FROM sales WHERE tenant_id = $1 AND id = $2 LIMIT 1`, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	err = r.DB.SelectContext(ctx, &sale.Items,
		`SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY product_name ASC`, id)
	if err != nil {
		return nil, err
	}

	return &sale, nil
}

func (r *PGRepository) FindAll(ctx context.Context, tenantID string, page, pageSize int) ([]model.Sale, int, error) {
	var count int
	if err := r.DB.GetContext(ctx, &count, `SELECT count(*) FROM sales WHERE tenant_id = $1`, tenantID); err != nil {
		return nil, 0, err
	}

	if pageSize <= 0 {
		pageSize = 25
	}
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var list []model.Sale
	err := r.DB.SelectContext(ctx, &list, `
        SELECT * FROM sales
        WHERE tenant_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, tenantID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	return list, count, nil
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

// deductStock decrements atomically, guarded so stock never goes negative.
// Returns the remaining stock.
func (r *PGRepository) deductStock(ctx context.Context, tx *sqlx.Tx, tenantID, productID string, qty float64) (float64, error) {
	var after float64
	err := tx.GetContext(ctx, &after, `
        UPDATE products
        SET stock_current = stock_current - $1, updated_at = now()
        WHERE tenant_id = $2 AND id = $3 AND stock_current >= $1
        RETURNING stock_current
    `, qty, tenantID, productID)
	if err == nil {
		return after, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to deduct stock: %w", err)
	}

	// Either the product is gone or the guard rejected the quantity.
	var name string
	nameErr := tx.GetContext(ctx, &name, `SELECT name FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, productID)
	if nameErr != nil && !errors.Is(nameErr, sql.ErrNoRows) {
		return 0, nameErr
	}
	return 0, &sales.InsufficientStockError{ProductID: productID, ProductName: name}
}

func (r *PGRepository) insertItems(ctx context.Context, tx *sqlx.Tx, items []model.SaleItem) error {
	query := `
        INSERT INTO sale_items (
            id, sale_id, product_id, product_name, quantity, unit_price,
            custom_price, net_price_at_sale, unit_tax, cost_price_at_sale, subtotal
        )
        VALUES (
            :id, :sale_id, :product_id, :product_name, :quantity, :unit_price,
            :custom_price, :net_price_at_sale, :unit_tax, :cost_price_at_sale, :subtotal
        )
    `
	for i := range items {
		if _, err := tx.NamedExecContext(ctx, query, &items[i]); err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}
	return nil
}

func (r *PGRepository) insertMovement(ctx context.Context, tx *sqlx.Tx, m *model.InventoryMovement) error {
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
	if _, err := tx.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to insert inventory movement: %w", err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
