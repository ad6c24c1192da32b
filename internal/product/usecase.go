package product

import (
	"context"

	"github.com/saaspos/sales-service/internal/cart"
	"github.com/saaspos/sales-service/internal/model"
	"github.com/saaspos/sales-service/internal/product/dto"
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, tenantID, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, tenantID, id string) error

	// GetSnapshot resolves the point-in-time product view the cart engine
	// consumes at add time.
	GetSnapshot(ctx context.Context, tenantID, id string) (*cart.Snapshot, error)
}
