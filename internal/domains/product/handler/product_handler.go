package handler

import (
	"errors"
	"net/http"
	"strconv"

	"shopcart-backend/internal/domains/product/model"
	"shopcart-backend/internal/domains/product/service"
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

// ListProducts handles GET /products
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, total, err := h.service.ListProducts(c.Request.Context(), page, limit)
	if err != nil {
		response.InternalServerError(c, "Failed to list products")
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to get product")
		return
	}

	response.Success(c, http.StatusOK, product)
}

// CreateProduct handles POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateSKU):
			response.Conflict(c, "Product with this SKU already exists")
		case isValidationError(err):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid product payload", err)
		default:
			response.InternalServerError(c, "Failed to create product")
		}
		return
	}

	response.Success(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrProductNotFound):
			response.NotFound(c, "Product not found")
		case isValidationError(err):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "Invalid product payload", err)
		default:
			response.InternalServerError(c, "Failed to update product")
		}
		return
	}

	response.Success(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product id")
		return
	}

	if err := h.service.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		response.InternalServerError(c, "Failed to delete product")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func isValidationError(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.ErrorObject
	return errors.As(err, &verr)
}
