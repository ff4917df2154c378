package repository

import (
	"context"

	"shopcart-backend/internal/domains/product/model"

	"github.com/google/uuid"
)

// RepositoryInterface defines data access methods for products.
type RepositoryInterface interface {
	// FindByID returns nil, nil when the product does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// List returns a page of products plus the total count.
	List(ctx context.Context, page, limit int) ([]*model.Product, int, error)

	Create(ctx context.Context, product *model.Product) error

	Update(ctx context.Context, product *model.Product) error

	Delete(ctx context.Context, id uuid.UUID) error
}
