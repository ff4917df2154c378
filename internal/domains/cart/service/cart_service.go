package service

import (
	"context"
	"fmt"
	"time"

	"shopcart-backend/internal/domains/cart/model"
	repo "shopcart-backend/internal/domains/cart/repository"
	couponModel "shopcart-backend/internal/domains/coupon/model"
	couponService "shopcart-backend/internal/domains/coupon/service"
	productService "shopcart-backend/internal/domains/product/service"
	"shopcart-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartService struct {
	carts    repo.RepositoryInterface
	products productService.ServiceInterface
	coupons  couponService.ServiceInterface
	now      func() time.Time
}

func NewCartService(
	carts repo.RepositoryInterface,
	products productService.ServiceInterface,
	coupons couponService.ServiceInterface,
) ServiceInterface {
	return &CartService{
		carts:    carts,
		products: products,
		coupons:  coupons,
		now:      time.Now,
	}
}

func (s *CartService) GetCart(ctx context.Context, customerID string) (*model.CartResponse, error) {
	cart, err := s.findOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, customerID string, req model.AddItemRequest) (*model.CartResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, model.ErrProductUnavailable
	}

	cart, err := s.findOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	existingQty := 0
	if existing, err := s.carts.FindItem(ctx, cart.ID, req.ProductID); err != nil {
		return nil, err
	} else if existing != nil {
		existingQty = existing.Quantity
	}
	if existingQty+req.Quantity > product.Stock {
		return nil, model.ErrInsufficientStock
	}

	now := s.now()
	item := &model.CartItem{
		ID:        uuid.New(),
		CartID:    cart.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.carts.UpsertItem(ctx, item); err != nil {
		return nil, err
	}

	return s.refresh(ctx, cart)
}

func (s *CartService) UpdateItem(ctx context.Context, customerID string, itemID uuid.UUID, req model.UpdateItemRequest) (*model.CartResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, item, err := s.findOwnedItem(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > product.Stock {
		return nil, model.ErrInsufficientStock
	}

	if err := s.carts.UpdateItemQuantity(ctx, itemID, req.Quantity); err != nil {
		return nil, err
	}

	return s.refresh(ctx, cart)
}

func (s *CartService) RemoveItem(ctx context.Context, customerID string, itemID uuid.UUID) (*model.CartResponse, error) {
	cart, _, err := s.findOwnedItem(ctx, customerID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.DeleteItem(ctx, itemID); err != nil {
		return nil, err
	}

	return s.refresh(ctx, cart)
}

func (s *CartService) ClearCart(ctx context.Context, customerID string) (*model.CartResponse, error) {
	cart, err := s.findOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.DeleteAllItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	cart.ClearCoupon()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}

	// The cart is empty, so no auto coupon can qualify; skip resolution.
	return s.buildResponse(cart, nil, nil), nil
}

// ApplyCoupon is the only path that writes the usage ledger. Validation is
// advisory; the recorder repeats the limit checks under the lock and its
// verdict is final. The coupon slot flips to manual only after the ledger
// row is committed.
func (s *CartService) ApplyCoupon(ctx context.Context, customerID string, req model.ApplyCouponRequest) (*model.CartResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.findOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	details, err := s.carts.ListItemDetails(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	snap := snapshotFrom(cart, details)

	result, err := s.coupons.ValidateForCart(ctx, req.CouponCode, customerID, snap)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, result.Err()
	}

	if _, err := s.coupons.RecordUsage(ctx, result.Coupon.ID, customerID, cart.ID, result.Discount, snap.Subtotal()); err != nil {
		return nil, err
	}

	cart.SetCoupon(result.Coupon.ID, false)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("coupon usage recorded but cart save failed: %w", err)
	}

	logger.Info("coupon applied to cart", map[string]interface{}{
		"cartId":     cart.ID.String(),
		"customerId": customerID,
		"code":       result.Coupon.Code,
		"discount":   result.Discount.StringFixed(2),
	})
	return s.buildResponse(cart, details, result), nil
}

func (s *CartService) RemoveCoupon(ctx context.Context, customerID string) (*model.CartResponse, error) {
	cart, err := s.carts.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}
	if !cart.HasCoupon() {
		return nil, model.ErrNoCouponApplied
	}

	cart.ClearCoupon()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}

	logger.Info("coupon removed from cart", map[string]interface{}{
		"cartId":     cart.ID.String(),
		"customerId": customerID,
	})

	// An eligible auto coupon may have been masked by the manual one.
	return s.refresh(ctx, cart)
}

// SnapshotForCustomer backs the dry-run coupon validation endpoint.
func (s *CartService) SnapshotForCustomer(ctx context.Context, customerID string) (*couponModel.CartSnapshot, error) {
	cart, err := s.carts.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &couponModel.CartSnapshot{}, nil
	}

	details, err := s.carts.ListItemDetails(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return snapshotFrom(cart, details), nil
}

func (s *CartService) findOrCreateCart(ctx context.Context, customerID string) (*model.Cart, error) {
	cart, err := s.carts.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	now := s.now()
	cart = &model.Cart{
		ID:         uuid.New(),
		CustomerID: customerID,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) findOwnedItem(ctx context.Context, customerID string, itemID uuid.UUID) (*model.Cart, *model.CartItem, error) {
	cart, err := s.carts.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}
	if cart == nil {
		return nil, nil, model.ErrCartItemNotFound
	}

	item, err := s.carts.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil || item.CartID != cart.ID {
		return nil, nil, model.ErrCartItemNotFound
	}
	return cart, item, nil
}

// refresh re-reads the cart's lines, reconciles the coupon slot, and
// builds the response payload.
func (s *CartService) refresh(ctx context.Context, cart *model.Cart) (*model.CartResponse, error) {
	details, err := s.carts.ListItemDetails(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	result, err := s.reconcile(ctx, cart, snapshotFrom(cart, details))
	if err != nil {
		return nil, err
	}
	return s.buildResponse(cart, details, result), nil
}

// reconcile re-derives the coupon slot from current cart state. A manual
// coupon stays until it fails re-validation; otherwise the best auto
// coupon takes the slot, or the slot empties. Auto application is
// provisional and never touches the usage ledger.
func (s *CartService) reconcile(ctx context.Context, cart *model.Cart, snap *couponModel.CartSnapshot) (*couponModel.ValidationResult, error) {
	prevID := cart.AppliedCouponID
	prevAuto := cart.IsCouponAutoApplied

	var result *couponModel.ValidationResult

	if cart.HasManualCoupon() {
		res, err := s.coupons.ValidateByID(ctx, *cart.AppliedCouponID, cart.CustomerID, snap)
		if err != nil {
			return nil, err
		}
		if res.Valid {
			result = res
		} else {
			logger.Info("applied coupon no longer valid, clearing", map[string]interface{}{
				"cartId": cart.ID.String(),
				"reason": string(res.Code),
			})
			cart.ClearCoupon()
		}
	}

	if result == nil {
		best, err := s.coupons.ResolveBestAutoCoupon(ctx, cart.CustomerID, snap)
		if err != nil {
			return nil, err
		}
		if best != nil {
			cart.SetCoupon(best.Coupon.ID, true)
			result = best
		} else if cart.HasCoupon() {
			cart.ClearCoupon()
		}
	}

	if slotChanged(prevID, prevAuto, cart) {
		if err := s.carts.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func slotChanged(prevID *uuid.UUID, prevAuto bool, cart *model.Cart) bool {
	switch {
	case prevID == nil && cart.AppliedCouponID == nil:
		return false
	case prevID == nil || cart.AppliedCouponID == nil:
		return true
	default:
		return *prevID != *cart.AppliedCouponID || prevAuto != cart.IsCouponAutoApplied
	}
}

func snapshotFrom(cart *model.Cart, details []*model.ItemDetail) *couponModel.CartSnapshot {
	snap := &couponModel.CartSnapshot{CartID: cart.ID}
	for _, d := range details {
		snap.Items = append(snap.Items, couponModel.SnapshotItem{
			ProductID: d.ProductID,
			Category:  d.Category,
			Quantity:  d.Quantity,
			LineTotal: d.LineTotal,
		})
	}
	return snap
}

func (s *CartService) buildResponse(cart *model.Cart, details []*model.ItemDetail, result *couponModel.ValidationResult) *model.CartResponse {
	total := decimal.Zero
	itemCount := 0
	for _, d := range details {
		total = total.Add(d.LineTotal)
		itemCount += d.Quantity
	}

	discount := decimal.Zero
	var applied *model.AppliedCouponInfo
	var pct *decimal.Decimal
	if result != nil && result.Valid && result.Coupon != nil {
		discount = result.Discount
		applied = &model.AppliedCouponInfo{
			ID:           result.Coupon.ID,
			Code:         result.Coupon.Code,
			Name:         result.Coupon.Name,
			DiscountType: result.Coupon.DiscountType,
			AutoApplied:  cart.IsCouponAutoApplied,
		}
		if total.IsPositive() && discount.IsPositive() {
			p := discount.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
			pct = &p
		}
	}

	payable := total.Sub(discount)
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	if details == nil {
		details = []*model.ItemDetail{}
	}
	return &model.CartResponse{
		ID:            cart.ID,
		CustomerID:    cart.CustomerID,
		Items:         details,
		AppliedCoupon: applied,
		Summary: model.Summary{
			TotalBeforeDiscount: total.Round(2),
			DiscountAmount:      discount.Round(2),
			FinalPayable:        payable.Round(2),
			TotalItemCount:      itemCount,
			DiscountPercentage:  pct,
		},
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
}
