package service

import (
	"context"

	"shopcart-backend/internal/domains/cart/model"
	couponModel "shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
)

// ServiceInterface is the cart surface. Every operation returns the full
// cart payload with the coupon slot already reconciled, so a caller sees
// the effect of its mutation and any coupon fallout in one response.
type ServiceInterface interface {
	GetCart(ctx context.Context, customerID string) (*model.CartResponse, error)
	AddItem(ctx context.Context, customerID string, req model.AddItemRequest) (*model.CartResponse, error)
	UpdateItem(ctx context.Context, customerID string, itemID uuid.UUID, req model.UpdateItemRequest) (*model.CartResponse, error)
	RemoveItem(ctx context.Context, customerID string, itemID uuid.UUID) (*model.CartResponse, error)
	ClearCart(ctx context.Context, customerID string) (*model.CartResponse, error)
	ApplyCoupon(ctx context.Context, customerID string, req model.ApplyCouponRequest) (*model.CartResponse, error)
	RemoveCoupon(ctx context.Context, customerID string) (*model.CartResponse, error)

	// SnapshotForCustomer exposes the customer's active cart as a
	// validation input. Returns an empty snapshot when no cart exists;
	// never creates one.
	SnapshotForCustomer(ctx context.Context, customerID string) (*couponModel.CartSnapshot, error)
}
