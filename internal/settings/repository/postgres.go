package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/saaspos/sales-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByTenant(ctx context.Context, tenantID string) (*model.ShopConfig, error) {
	var config model.ShopConfig
	err := r.DB.GetContext(ctx, &config, `SELECT * FROM shop_configs WHERE tenant_id = $1 LIMIT 1`, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.ShopConfig, error) {
	var config model.ShopConfig
	err := r.DB.GetContext(ctx, &config, `SELECT * FROM shop_configs WHERE url_slug = $1 LIMIT 1`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

func (r *PGRepository) Upsert(ctx context.Context, config *model.ShopConfig) error {
	query := `
        INSERT INTO shop_configs (
            id, tenant_id, url_slug, shop_name, primary_color, contact_phone,
            logo_url, admin_pin_hash, payment_methods, shipping_methods,
            is_active, created_at, updated_at
        )
        VALUES (
            :id, :tenant_id, :url_slug, :shop_name, :primary_color, :contact_phone,
            :logo_url, :admin_pin_hash, :payment_methods, :shipping_methods,
            :is_active, :created_at, :updated_at
        )
        ON CONFLICT (tenant_id) DO UPDATE SET
            url_slug = EXCLUDED.url_slug,
            shop_name = EXCLUDED.shop_name,
            primary_color = EXCLUDED.primary_color,
            contact_phone = EXCLUDED.contact_phone,
            logo_url = EXCLUDED.logo_url,
            payment_methods = EXCLUDED.payment_methods,
            shipping_methods = EXCLUDED.shipping_methods,
            is_active = EXCLUDED.is_active,
            updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, config)
	return err
}

func (r *PGRepository) SetPinHash(ctx context.Context, tenantID, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE shop_configs SET admin_pin_hash = $1, updated_at = now() WHERE tenant_id = $2`,
		hash, tenantID,
	)
	return err
}
