package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"shopcart-backend/internal/domains/coupon/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeCouponRepo struct {
	mu      sync.Mutex
	coupons map[uuid.UUID]*model.Coupon
}

func newFakeCouponRepo(coupons ...*model.Coupon) *fakeCouponRepo {
	repo := &fakeCouponRepo{coupons: make(map[uuid.UUID]*model.Coupon)}
	for _, c := range coupons {
		repo.coupons[c.ID] = c
	}
	return repo
}

func (r *fakeCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code == model.NormalizeCode(code) {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCouponRepo) FindActiveAutoApplied(_ context.Context, now time.Time) ([]*model.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Coupon
	for _, c := range r.coupons {
		if c.CouponType == model.CouponTypeAutoApplied && c.IsActive && c.IsWithinWindow(now) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (r *fakeCouponRepo) List(_ context.Context, _, _ int) ([]*model.Coupon, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Coupon
	for _, c := range r.coupons {
		clone := *c
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeCouponRepo) Create(_ context.Context, coupon *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code == coupon.Code {
			return model.ErrDuplicateCode
		}
	}
	clone := *coupon
	r.coupons[coupon.ID] = &clone
	return nil
}

func (r *fakeCouponRepo) Update(_ context.Context, coupon *model.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[coupon.ID]; !ok {
		return model.ErrCouponNotFound
	}
	clone := *coupon
	r.coupons[coupon.ID] = &clone
	return nil
}

func (r *fakeCouponRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.coupons[id]; !ok {
		return model.ErrCouponNotFound
	}
	delete(r.coupons, id)
	return nil
}

func (r *fakeCouponRepo) IncrementTotalUses(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return model.ErrCouponNotFound
	}
	c.CurrentTotalUses++
	return nil
}

func (r *fakeCouponRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, c := range r.coupons {
		if c.IsActive && c.ExpiryTime.Before(now) {
			c.IsActive = false
			count++
		}
	}
	return count, nil
}

type fakeUsageRepo struct {
	mu     sync.Mutex
	usages []*model.CouponUsage
}

func newFakeUsageRepo(usages ...*model.CouponUsage) *fakeUsageRepo {
	return &fakeUsageRepo{usages: usages}
}

func (r *fakeUsageRepo) Append(_ context.Context, usage *model.CouponUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *usage
	r.usages = append(r.usages, &clone)
	return nil
}

func (r *fakeUsageRepo) CountByCoupon(_ context.Context, couponID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.usages {
		if u.CouponID == couponID {
			count++
		}
	}
	return count, nil
}

func (r *fakeUsageRepo) CountByCouponAndCustomer(_ context.Context, couponID uuid.UUID, customerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, u := range r.usages {
		if u.CouponID == couponID && u.CustomerID == customerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeUsageRepo) ListByCoupon(_ context.Context, couponID uuid.UUID, _, _ int) ([]*model.CouponUsage, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.CouponUsage
	for _, u := range r.usages {
		if u.CouponID == couponID {
			clone := *u
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (r *fakeUsageRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.usages)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(v int) *int {
	return &v
}
