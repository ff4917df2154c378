package handler

import (
	"errors"
	"net/http"

	"shopcart-backend/internal/domains/cart/model"
	"shopcart-backend/internal/domains/cart/service"
	couponModel "shopcart-backend/internal/domains/coupon/model"
	productModel "shopcart-backend/internal/domains/product/model"
	"shopcart-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// GetCart handles GET /carts/:customerId
func (h *Handler) GetCart(c *gin.Context) {
	customerID := c.Param("customerId")

	cart, err := h.service.GetCart(c.Request.Context(), customerID)
	if err != nil {
		h.respondError(c, err, "Failed to get cart")
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// AddItem handles POST /carts/:customerId/items
func (h *Handler) AddItem(c *gin.Context) {
	customerID := c.Param("customerId")

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(), customerID, req)
	if err != nil {
		h.respondError(c, err, "Failed to add item to cart")
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// UpdateItem handles PUT /carts/:customerId/items/:itemId
func (h *Handler) UpdateItem(c *gin.Context) {
	customerID := c.Param("customerId")
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item id")
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.service.UpdateItem(c.Request.Context(), customerID, itemID, req)
	if err != nil {
		h.respondError(c, err, "Failed to update cart item")
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// RemoveItem handles DELETE /carts/:customerId/items/:itemId
func (h *Handler) RemoveItem(c *gin.Context) {
	customerID := c.Param("customerId")
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "Invalid item id")
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(), customerID, itemID)
	if err != nil {
		h.respondError(c, err, "Failed to remove cart item")
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// ClearCart handles DELETE /carts/:customerId
func (h *Handler) ClearCart(c *gin.Context) {
	customerID := c.Param("customerId")

	cart, err := h.service.ClearCart(c.Request.Context(), customerID)
	if err != nil {
		h.respondError(c, err, "Failed to clear cart")
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// ApplyCoupon handles POST /carts/:customerId/coupons
func (h *Handler) ApplyCoupon(c *gin.Context) {
	customerID := c.Param("customerId")

	var req model.ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	cart, err := h.service.ApplyCoupon(c.Request.Context(), customerID, req)
	if err != nil {
		h.respondError(c, err, "Failed to apply coupon")
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// RemoveCoupon handles DELETE /carts/:customerId/coupons
func (h *Handler) RemoveCoupon(c *gin.Context) {
	customerID := c.Param("customerId")

	cart, err := h.service.RemoveCoupon(c.Request.Context(), customerID)
	if err != nil {
		h.respondError(c, err, "Failed to remove coupon")
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// respondError maps domain errors onto the response envelope. Lock
// contention gets its own retryable 503 so clients never mistake it for
// a validation rejection.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	var verr *couponModel.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ErrorResponse(c, http.StatusBadRequest, string(verr.Code), verr.Message)
	case errors.Is(err, couponModel.ErrCouponBusy):
		response.ServiceUnavailable(c, "Coupon is being applied by another request, please try again")
	case errors.Is(err, couponModel.ErrCouponNotFound):
		response.NotFound(c, "Coupon not found")
	case errors.Is(err, model.ErrCartNotFound):
		response.NotFound(c, "Cart not found")
	case errors.Is(err, model.ErrCartItemNotFound):
		response.NotFound(c, "Cart item not found")
	case errors.Is(err, productModel.ErrProductNotFound):
		response.NotFound(c, "Product not found")
	case errors.Is(err, model.ErrNoCouponApplied):
		response.BadRequest(c, "No coupon is applied to this cart")
	case errors.Is(err, model.ErrProductUnavailable):
		response.BadRequest(c, "Product is not available")
	case errors.Is(err, model.ErrInsufficientStock):
		response.ErrorResponse(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", "Requested quantity exceeds available stock")
	case isValidationError(err):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid request payload", err)
	default:
		response.InternalServerError(c, fallback)
	}
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.ErrorObject
	return errors.As(err, &verr)
}
