package main

import (
	"net/http"

	"shopcart-backend/internal/shared/middleware"
	"shopcart-backend/internal/shared/response"
	"shopcart-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func setupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	v1 := router.Group("/api/v1")

	v1.GET("/health", healthHandler(c))

	products := v1.Group("/products")
	{
		products.GET("", c.ProductHandler.ListProducts)
		products.GET("/:id", c.ProductHandler.GetProduct)
		products.POST("", c.ProductHandler.CreateProduct)
		products.PUT("/:id", c.ProductHandler.UpdateProduct)
		products.DELETE("/:id", c.ProductHandler.DeleteProduct)
	}

	coupons := v1.Group("/coupons")
	{
		coupons.GET("", c.CouponHandler.ListCoupons)
		coupons.GET("/active", c.CouponHandler.ListActiveAutoApplied)
		coupons.GET("/:id", c.CouponHandler.GetCoupon)
		coupons.GET("/:id/usages", c.CouponHandler.ListUsages)
		coupons.POST("", c.CouponHandler.CreateCoupon)
		coupons.POST("/validate", c.CouponHandler.ValidateCoupon)
		coupons.PUT("/:id", c.CouponHandler.UpdateCoupon)
		coupons.DELETE("/:id", c.CouponHandler.DeleteCoupon)
	}

	carts := v1.Group("/carts/:customerId")
	{
		carts.GET("", c.CartHandler.GetCart)
		carts.DELETE("", c.CartHandler.ClearCart)
		carts.POST("/items", c.CartHandler.AddItem)
		carts.PUT("/items/:itemId", c.CartHandler.UpdateItem)
		carts.DELETE("/items/:itemId", c.CartHandler.RemoveItem)
		carts.POST("/coupons", c.CartHandler.ApplyCoupon)
		carts.DELETE("/coupons", c.CartHandler.RemoveCoupon)
	}

	return router
}

func healthHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checks := gin.H{"database": "ok", "redis": "ok"}
		healthy := true

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
		if err := c.Cache.HealthCheck(ctx.Request.Context()); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		if !healthy {
			response.ErrorWithDetails(ctx, http.StatusServiceUnavailable, "UNHEALTHY", "One or more dependencies are down", checks)
			return
		}
		response.Success(ctx, http.StatusOK, gin.H{
			"status":  "healthy",
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}
