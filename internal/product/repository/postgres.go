package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, tenant_id, category_id, sku, barcode, name, description,
            price_net, price_final, cost_price, tax_percent, is_tax_included,
            stock_current, stock_min, measurement_unit, image_url, is_active,
            created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :category_id, :sku, :barcode, :name, :description,
            :price_net, :price_final, :cost_price, :tax_percent, :is_tax_included,
            :stock_current, :stock_min, :measurement_unit, :image_url, :is_active,
            :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, tenantID, id string) (*model.Product, error) {
	var product model.Product
	query := `
        SELECT p.*, c.name AS category_name
        FROM products p
        LEFT JOIN categories c ON c.id = p.category_id
        WHERE p.tenant_id = $1 AND p.id = $2
        LIMIT 1
    `
	err := r.DB.GetContext(ctx, &product, query, tenantID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{"tenant_id = :tenant_id"}
	args := map[string]interface{}{"tenant_id": f.TenantID}

	if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.LowStock {
		conditions = append(conditions, "stock_current <= stock_min")
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search OR barcode ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countQuery := "SELECT count(*) FROM products" + whereClause
	rows, err := r.DB.NamedQueryContext(ctx, countQuery, args)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return nil, 0, err
		}
	}

	orderBy := "created_at DESC"
	if f.SortBy != "" {
		// Whitelisted sort fields only.
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "price_final"
		case "stock":
			orderBy = "stock_current"
		case "created_at":
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)

	if f.PageSize > 0 {
		offset := (f.Page - 1) * f.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	listRows, err := r.DB.NamedQueryContext(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}
	defer listRows.Close()

	for listRows.Next() {
		var p model.Product
		if err := listRows.StructScan(&p); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products SET
            category_id = :category_id,
            sku = :sku,
            barcode = :barcode,
            name = :name,
            description = :description,
            price_net = :price_net,
            price_final = :price_final,
            cost_price = :cost_price,
            tax_percent = :tax_percent,
            is_tax_included = :is_tax_included,
            stock_current = :stock_current,
            stock_min = :stock_min,
            measurement_unit = :measurement_unit,
            image_url = :image_url,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE tenant_id = :tenant_id AND id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, tenantID, id string) error {
	// Soft delete keeps sale history rows resolvable.
	_, err := r.DB.ExecContext(ctx,
		`UPDATE products SET is_active = false, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id,
	)
	return err
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, tenantID, sku, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE tenant_id = $1 AND sku = $2 AND id != $3`
	if err := r.DB.GetContext(ctx, &count, query, tenantID, sku, excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, tenantID, barcode, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE tenant_id = $1 AND barcode = $2 AND id != $3`
	if err := r.DB.GetContext(ctx, &count, query, tenantID, barcode, excludeID); err != nil {
		return false, err
	}
	return count == 0, nil
}
