package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/saaspos/sales-service/internal/inventory/dto"
	"github.com/saaspos/sales-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{
		"tenant_id": filters.TenantID,
		"limit":     filters.PageSize,
		"offset":    (filters.Page - 1) * filters.PageSize,
	}

	if filters.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = filters.ProductID
	}
	if filters.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = filters.MovementType
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery, countArgs, err := sqlx.Named(`SELECT COUNT(*) FROM inventory_movements WHERE `+where, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &total, r.DB.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	query, listArgs, err := sqlx.Named(`
        SELECT * FROM inventory_movements
        WHERE `+where+`
        ORDER BY created_at DESC
        LIMIT :limit OFFSET :offset
    `, args)
	if err != nil {
		return nil, 0, err
	}

	movements := []model.InventoryMovement{}
	if err := r.DB.SelectContext(ctx, &movements, r.DB.Rebind(query), listArgs...); err != nil {
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, total, nil
}

func (r *PGRepository) GetStock(ctx context.Context, tenantID, productID string) (*float64, error) {
	var stock float64
	err := r.DB.GetContext(ctx, &stock, `
        SELECT stock_current FROM products
        WHERE tenant_id = $1 AND id = $2 AND is_active = true
    `, tenantID, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stock: %w", err)
	}
	return &stock, nil
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, tenantID, productID string, newStock float64, movement *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
        UPDATE products
        SET stock_current = $1, updated_at = now()
        WHERE tenant_id = $2 AND id = $3 AND is_active = true
    `, newStock, tenantID, productID)
	if err != nil {
		return fmt.Errorf("failed to write stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

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
	if _, err := tx.NamedExecContext(ctx, query, movement); err != nil {
		return fmt.Errorf("failed to insert inventory movement: %w", err)
	}

	return tx.Commit()
}
