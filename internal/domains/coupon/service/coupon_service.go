package service

import (
	"context"
	"fmt"
	"time"

	"shopcart-backend/internal/domains/coupon/model"
	"shopcart-backend/internal/domains/coupon/repository"
	"shopcart-backend/pkg/lock"
	"shopcart-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CouponService struct {
	repository repository.RepositoryInterface
	usages     repository.UsageRepositoryInterface
	recorder   *UsageRecorder
	now        func() time.Time
}

func NewCouponService(
	r repository.RepositoryInterface,
	usages repository.UsageRepositoryInterface,
	locks lock.Manager,
	lockTTL time.Duration,
) ServiceInterface {
	return &CouponService{
		repository: r,
		usages:     usages,
		recorder:   NewUsageRecorder(r, usages, locks, lockTTL),
		now:        time.Now,
	}
}

func (s *CouponService) GetCoupon(ctx context.Context, id uuid.UUID) (*model.Coupon, error) {
	coupon, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		return nil, model.ErrCouponNotFound
	}
	return coupon, nil
}

func (s *CouponService) ListCoupons(ctx context.Context, page, limit int) ([]*model.Coupon, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repository.List(ctx, page, limit)
}

func (s *CouponService) ListActiveAutoApplied(ctx context.Context) ([]*model.Coupon, error) {
	return s.repository.FindActiveAutoApplied(ctx, s.now())
}

func (s *CouponService) CreateCoupon(ctx context.Context, req model.CreateCouponRequest) (*model.Coupon, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	coupon := &model.Coupon{
		ID:                   uuid.New(),
		Code:                 model.NormalizeCode(req.Code),
		Name:                 req.Name,
		Description:          req.Description,
		CouponType:           req.CouponType,
		DiscountType:         req.DiscountType,
		DiscountValue:        decimal.NewFromFloat(req.DiscountValue),
		StartTime:            req.StartTime,
		ExpiryTime:           req.ExpiryTime,
		MinCartItems:         req.MinCartItems,
		MinCartValue:         decimal.NewFromFloat(req.MinCartValue),
		ApplicableProductIDs: req.ApplicableProductIDs,
		ApplicableCategories: req.ApplicableCategories,
		MaxTotalUses:         req.MaxTotalUses,
		MaxUsesPerUser:       req.MaxUsesPerUser,
		Priority:             req.Priority,
		IsActive:             isActive,
	}
	if req.MaxDiscountAmount != nil {
		max := decimal.NewFromFloat(*req.MaxDiscountAmount)
		coupon.MaxDiscountAmount = &max
	}
	now := s.now()
	coupon.CreatedAt = now
	coupon.UpdatedAt = now

	if err := s.repository.Create(ctx, coupon); err != nil {
		return nil, err
	}

	logger.Info("coupon created", map[string]interface{}{
		"couponId": coupon.ID.String(),
		"code":     coupon.Code,
		"type":     string(coupon.CouponType),
	})
	return coupon, nil
}

func (s *CouponService) UpdateCoupon(ctx context.Context, id uuid.UUID, req model.UpdateCouponRequest) (*model.Coupon, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		coupon.Name = *req.Name
	}
	if req.Description != nil {
		coupon.Description = *req.Description
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = decimal.NewFromFloat(*req.DiscountValue)
	}
	if req.MaxDiscountAmount != nil {
		max := decimal.NewFromFloat(*req.MaxDiscountAmount)
		coupon.MaxDiscountAmount = &max
	}
	if req.StartTime != nil {
		coupon.StartTime = *req.StartTime
	}
	if req.ExpiryTime != nil {
		coupon.ExpiryTime = *req.ExpiryTime
	}
	if req.MinCartItems != nil {
		coupon.MinCartItems = *req.MinCartItems
	}
	if req.MinCartValue != nil {
		coupon.MinCartValue = decimal.NewFromFloat(*req.MinCartValue)
	}
	if req.ApplicableProductIDs != nil {
		coupon.ApplicableProductIDs = req.ApplicableProductIDs
	}
	if req.ApplicableCategories != nil {
		coupon.ApplicableCategories = req.ApplicableCategories
	}
	if req.MaxTotalUses != nil {
		coupon.MaxTotalUses = req.MaxTotalUses
	}
	if req.MaxUsesPerUser != nil {
		coupon.MaxUsesPerUser = req.MaxUsesPerUser
	}
	if req.Priority != nil {
		coupon.Priority = *req.Priority
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if !coupon.ExpiryTime.After(coupon.StartTime) {
		return nil, model.ErrInvalidWindow
	}

	if err := s.repository.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	return s.repository.Delete(ctx, id)
}

func (s *CouponService) ValidateForCart(ctx context.Context, code, customerID string, cart *model.CartSnapshot) (*model.ValidationResult, error) {
	coupon, err := s.repository.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, coupon, customerID, cart)
}

func (s *CouponService) ValidateByID(ctx context.Context, couponID uuid.UUID, customerID string, cart *model.CartSnapshot) (*model.ValidationResult, error) {
	coupon, err := s.repository.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	return s.validate(ctx, coupon, customerID, cart)
}

// validate runs the cheap checks first. The usage ledger is consulted for
// the per-user limit only after every earlier check has passed, so a
// rejection like CART_EMPTY never costs a count query.
func (s *CouponService) validate(ctx context.Context, coupon *model.Coupon, customerID string, cart *model.CartSnapshot) (*model.ValidationResult, error) {
	now := s.now()
	result := ValidateCoupon(coupon, cart, now, 0)
	if !result.Valid || coupon.MaxUsesPerUser == nil {
		return result, nil
	}

	userUsage, err := s.usages.CountByCouponAndCustomer(ctx, coupon.ID, customerID)
	if err != nil {
		return nil, err
	}
	return ValidateCoupon(coupon, cart, now, userUsage), nil
}

func (s *CouponService) ResolveBestAutoCoupon(ctx context.Context, customerID string, cart *model.CartSnapshot) (*model.ValidationResult, error) {
	now := s.now()
	candidates, err := s.repository.FindActiveAutoApplied(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Count queries are spent only on candidates that survive the cheap
	// checks; everything else is rejected on coupon and cart state alone.
	userUsage := make(map[uuid.UUID]int, len(candidates))
	for _, candidate := range candidates {
		if candidate.MaxUsesPerUser == nil {
			continue
		}
		if !ValidateCoupon(candidate, cart, now, 0).Valid {
			continue
		}
		count, err := s.usages.CountByCouponAndCustomer(ctx, candidate.ID, customerID)
		if err != nil {
			return nil, err
		}
		userUsage[candidate.ID] = count
	}

	return ResolveBestCoupon(candidates, cart, now, userUsage), nil
}

func (s *CouponService) RecordUsage(ctx context.Context, couponID uuid.UUID, customerID string, cartID uuid.UUID, discount, cartTotal decimal.Decimal) (*model.CouponUsage, error) {
	usage, err := s.recorder.Record(ctx, couponID, customerID, cartID, discount, cartTotal)
	if err != nil {
		return nil, err
	}

	logger.Info("coupon usage recorded", map[string]interface{}{
		"couponId":   couponID.String(),
		"customerId": customerID,
		"discount":   discount.StringFixed(2),
	})
	return usage, nil
}

func (s *CouponService) ListUsages(ctx context.Context, couponID uuid.UUID, page, limit int) ([]*model.CouponUsage, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.usages.ListByCoupon(ctx, couponID, page, limit)
}

func (s *CouponService) DeactivateExpired(ctx context.Context) (int64, error) {
	count, err := s.repository.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("expired coupons deactivated", map[string]interface{}{"count": count})
	}
	return count, nil
}
