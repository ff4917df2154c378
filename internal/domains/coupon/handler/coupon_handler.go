package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"shopcart-backend/internal/domains/coupon/model"
	"shopcart-backend/internal/domains/coupon/service"
	"shopcart-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// CartSnapshotter supplies a customer's current cart so a coupon can be
// checked against it without going through the cart mutation surface.
type CartSnapshotter interface {
	SnapshotForCustomer(ctx context.Context, customerID string) (*model.CartSnapshot, error)
}

type Handler struct {
	service   service.ServiceInterface
	snapshots CartSnapshotter
}

func NewHandler(service service.ServiceInterface, snapshots CartSnapshotter) *Handler {
	return &Handler{service: service, snapshots: snapshots}
}

// ListCoupons handles GET /coupons
func (h *Handler) ListCoupons(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	coupons, total, err := h.service.ListCoupons(c.Request.Context(), page, limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list coupons")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, coupons, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// ListActiveAutoApplied handles GET /coupons/active
func (h *Handler) ListActiveAutoApplied(c *gin.Context) {
	coupons, err := h.service.ListActiveAutoApplied(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to list active coupons")
		return
	}
	response.Success(c, http.StatusOK, coupons)
}

// GetCoupon handles GET /coupons/:id
func (h *Handler) GetCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	coupon, err := h.service.GetCoupon(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrCouponNotFound) {
			response.NotFound(c, "Coupon not found")
			return
		}
		response.InternalServerError(c, "Failed to get coupon")
		return
	}

	response.Success(c, http.StatusOK, coupon)
}

// CreateCoupon handles POST /coupons
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.service.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateCode):
			response.Conflict(c, "Coupon code already exists")
		case isValidationError(err):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid coupon payload", err)
		default:
			response.InternalServerError(c, "Failed to create coupon")
		}
		return
	}

	response.Success(c, http.StatusCreated, coupon)
}

// UpdateCoupon handles PUT /coupons/:id
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	var req model.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	coupon, err := h.service.UpdateCoupon(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCouponNotFound):
			response.NotFound(c, "Coupon not found")
		case errors.Is(err, model.ErrInvalidWindow):
			response.BadRequest(c, "expiryTime must be after startTime")
		case isValidationError(err):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid coupon payload", err)
		default:
			response.InternalServerError(c, "Failed to update coupon")
		}
		return
	}

	response.Success(c, http.StatusOK, coupon)
}

// DeleteCoupon handles DELETE /coupons/:id
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	if err := h.service.DeleteCoupon(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrCouponNotFound) {
			response.NotFound(c, "Coupon not found")
			return
		}
		response.InternalServerError(c, "Failed to delete coupon")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ValidateCoupon handles POST /coupons/validate. It is a dry run: the
// outcome is reported against the customer's current cart, the cart's
// coupon slot stays untouched and no usage is recorded.
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req model.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid validation request", err)
		return
	}

	snapshot, err := h.snapshots.SnapshotForCustomer(c.Request.Context(), req.CustomerID)
	if err != nil {
		response.InternalServerError(c, "Failed to load cart")
		return
	}

	result, err := h.service.ValidateForCart(c.Request.Context(), req.CouponCode, req.CustomerID, snapshot)
	if err != nil {
		response.InternalServerError(c, "Failed to validate coupon")
		return
	}
	response.Success(c, http.StatusOK, result)
}

// ListUsages handles GET /coupons/:id/usages
func (h *Handler) ListUsages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid coupon id")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	usages, total, err := h.service.ListUsages(c.Request.Context(), id, page, limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list coupon usages")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, usages, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.ErrorObject
	return errors.As(err, &verr)
}
