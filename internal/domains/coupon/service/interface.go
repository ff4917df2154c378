package service

import (
	"context"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceInterface is the coupon engine surface the handlers and the cart
// domain depend on.
type ServiceInterface interface {
	GetCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	ListCoupons(ctx context.Context, page, limit int) ([]*model.Coupon, int, error)
	ListActiveAutoApplied(ctx context.Context) ([]*model.Coupon, error)
	CreateCoupon(ctx context.Context, req model.CreateCouponRequest) (*model.Coupon, error)
	UpdateCoupon(ctx context.Context, id uuid.UUID, req model.UpdateCouponRequest) (*model.Coupon, error)
	DeleteCoupon(ctx context.Context, id uuid.UUID) error

	// ValidateForCart checks the coded coupon against the cart. A missing
	// coupon yields an invalid result with code COUPON_NOT_FOUND, not an
	// error; errors are reserved for infrastructure failures.
	ValidateForCart(ctx context.Context, code, customerID string, cart *model.CartSnapshot) (*model.ValidationResult, error)

	// ValidateByID is ValidateForCart for an already-applied coupon
	// referenced by id, used when re-checking a cart's coupon slot.
	ValidateByID(ctx context.Context, couponID uuid.UUID, customerID string, cart *model.CartSnapshot) (*model.ValidationResult, error)

	// ResolveBestAutoCoupon picks the best currently eligible AUTO_APPLIED
	// coupon for the cart, or nil when none qualifies.
	ResolveBestAutoCoupon(ctx context.Context, customerID string, cart *model.CartSnapshot) (*model.ValidationResult, error)

	// RecordUsage durably commits a redemption under the usage lock.
	RecordUsage(ctx context.Context, couponID uuid.UUID, customerID string, cartID uuid.UUID, discount, cartTotal decimal.Decimal) (*model.CouponUsage, error)

	ListUsages(ctx context.Context, couponID uuid.UUID, page, limit int) ([]*model.CouponUsage, int, error)
	DeactivateExpired(ctx context.Context) (int64, error)
}
