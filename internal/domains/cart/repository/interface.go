package repository

import (
	"context"
	"time"

	"shopcart-backend/internal/domains/cart/model"

	"github.com/google/uuid"
)

// RepositoryInterface is the cart store. Find methods return (nil, nil)
// when no row matches.
type RepositoryInterface interface {
	FindActiveByCustomer(ctx context.Context, customerID string) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	// Save persists the mutable cart fields (coupon slot, active flag)
	// and refreshes updated_at.
	Save(ctx context.Context, cart *model.Cart) error

	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error)
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error)
	// UpsertItem inserts the line or, when the product is already in the
	// cart, adds the quantity to the existing row.
	UpsertItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteAllItems(ctx context.Context, cartID uuid.UUID) error

	// ListItemDetails returns the cart's lines joined with their products,
	// line totals computed from current prices, in insertion order.
	ListItemDetails(ctx context.Context, cartID uuid.UUID) ([]*model.ItemDetail, error)

	// PurgeStaleCarts deletes carts untouched since the cutoff, items
	// cascading, and returns how many carts were removed.
	PurgeStaleCarts(ctx context.Context, cutoff time.Time) (int64, error)
}
