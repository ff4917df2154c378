package service

import (
	"context"

	"shopcart-backend/internal/domains/product/model"

	"github.com/google/uuid"
)

// ServiceInterface is the product read/admin surface. The cart engine only
// uses GetProduct.
type ServiceInterface interface {
	// GetProduct returns model.ErrProductNotFound if the id is unknown.
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)

	ListProducts(ctx context.Context, page, limit int) ([]*model.Product, int, error)

	CreateProduct(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)

	UpdateProduct(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)

	DeleteProduct(ctx context.Context, id uuid.UUID) error
}
