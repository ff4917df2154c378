package repository

import (
	"context"
	"time"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
)

// RepositoryInterface is the coupon store. Find methods return (nil, nil)
// when no row matches.
type RepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Coupon, error)
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	// FindActiveAutoApplied returns active AUTO_APPLIED coupons whose
	// validity window contains now, ordered by priority descending.
	FindActiveAutoApplied(ctx context.Context, now time.Time) ([]*model.Coupon, error)
	List(ctx context.Context, page, limit int) ([]*model.Coupon, int, error)
	Create(ctx context.Context, coupon *model.Coupon) error
	Update(ctx context.Context, coupon *model.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementTotalUses bumps the cached usage counter. Display only;
	// limit checks count the ledger.
	IncrementTotalUses(ctx context.Context, id uuid.UUID) error
	// DeactivateExpired flips is_active off for coupons past their expiry
	// and returns how many rows changed.
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// UsageRepositoryInterface is the append-only redemption ledger.
type UsageRepositoryInterface interface {
	Append(ctx context.Context, usage *model.CouponUsage) error
	CountByCoupon(ctx context.Context, couponID uuid.UUID) (int, error)
	CountByCouponAndCustomer(ctx context.Context, couponID uuid.UUID, customerID string) (int, error)
	ListByCoupon(ctx context.Context, couponID uuid.UUID, page, limit int) ([]*model.CouponUsage, int, error)
}
