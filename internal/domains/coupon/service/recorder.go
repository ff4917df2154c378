package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shopcart-backend/internal/domains/coupon/model"
	"shopcart-backend/internal/domains/coupon/repository"
	"shopcart-backend/pkg/lock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UsageRecorder commits redemptions under a two-key lock: one key
// serializes all writers of a coupon, the other serializes a single
// customer's writes for it. Inside the critical section the limits are
// re-checked against the ledger, which is authoritative; the cached
// counter on the coupon row only exists for cheap display reads.
type UsageRecorder struct {
	coupons repository.RepositoryInterface
	usages  repository.UsageRepositoryInterface
	locks   lock.Manager
	lockTTL time.Duration
}

func NewUsageRecorder(
	coupons repository.RepositoryInterface,
	usages repository.UsageRepositoryInterface,
	locks lock.Manager,
	lockTTL time.Duration,
) *UsageRecorder {
	return &UsageRecorder{coupons: coupons, usages: usages, locks: locks, lockTTL: lockTTL}
}

func usageLockKeys(couponID uuid.UUID, customerID string) []string {
	return []string{
		fmt.Sprintf("coupon:%s", couponID),
		fmt.Sprintf("coupon:%s:user:%s", couponID, customerID),
	}
}

// Record appends one ledger row for the redemption. When the lock cannot
// be acquired it returns ErrCouponBusy so the caller can tell the customer
// to retry; it never reports a silent zero-discount success. A limit that
// trips inside the lock comes back as a ValidationError with the matching
// code.
func (r *UsageRecorder) Record(
	ctx context.Context,
	couponID uuid.UUID,
	customerID string,
	cartID uuid.UUID,
	discount decimal.Decimal,
	cartTotal decimal.Decimal,
) (*model.CouponUsage, error) {
	var usage *model.CouponUsage

	err := r.locks.WithLock(ctx, usageLockKeys(couponID, customerID), r.lockTTL, func(ctx context.Context) error {
		coupon, err := r.coupons.FindByID(ctx, couponID)
		if err != nil {
			return err
		}
		if coupon == nil {
			return model.ErrCouponNotFound
		}

		if coupon.MaxTotalUses != nil {
			total, err := r.usages.CountByCoupon(ctx, couponID)
			if err != nil {
				return err
			}
			if total >= *coupon.MaxTotalUses {
				return &model.ValidationError{
					Code:    model.CodeMaxTotalUsesReached,
					Message: "coupon has reached its maximum number of uses",
				}
			}
		}
		if coupon.MaxUsesPerUser != nil {
			used, err := r.usages.CountByCouponAndCustomer(ctx, couponID, customerID)
			if err != nil {
				return err
			}
			if used >= *coupon.MaxUsesPerUser {
				return &model.ValidationError{
					Code:    model.CodeMaxUserUsesReached,
					Message: "you have already used this coupon the maximum number of times",
				}
			}
		}

		entry := &model.CouponUsage{
			ID:                     uuid.New(),
			CouponID:               couponID,
			CustomerID:             customerID,
			CartID:                 cartID,
			DiscountApplied:        discount,
			CartTotalAtApplication: cartTotal,
			AppliedAt:              time.Now(),
		}
		if err := r.usages.Append(ctx, entry); err != nil {
			return err
		}
		if err := r.coupons.IncrementTotalUses(ctx, couponID); err != nil {
			return err
		}
		usage = entry
		return nil
	})
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, model.ErrCouponBusy
		}
		return nil, err
	}
	return usage, nil
}
