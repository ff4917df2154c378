package service

import (
	"time"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
)

// ResolveBestCoupon picks the auto-applied coupon granting the highest
// discount for the cart. Candidates that fail validation or yield a zero
// discount are skipped. Ties go to the higher priority, then to the
// lexicographically smaller code, so every replica resolves the same
// winner for the same inputs. Returns nil when nothing qualifies.
func ResolveBestCoupon(candidates []*model.Coupon, cart *model.CartSnapshot, now time.Time, userUsage map[uuid.UUID]int) *model.ValidationResult {
	var best *model.ValidationResult
	for _, coupon := range candidates {
		result := ValidateCoupon(coupon, cart, now, userUsage[coupon.ID])
		if !result.Valid || !result.Discount.IsPositive() {
			continue
		}
		if best == nil || beats(result, best) {
			best = result
		}
	}
	return best
}

func beats(a, b *model.ValidationResult) bool {
	if cmp := a.Discount.Cmp(b.Discount); cmp != 0 {
		return cmp > 0
	}
	if a.Coupon.Priority != b.Coupon.Priority {
		return a.Coupon.Priority > b.Coupon.Priority
	}
	return a.Coupon.Code < b.Coupon.Code
}
