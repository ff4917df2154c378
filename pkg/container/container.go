package container

import (
	"context"
	"fmt"

	"shopcart-backend/internal/config"
	cartHandler "shopcart-backend/internal/domains/cart/handler"
	cartRepo "shopcart-backend/internal/domains/cart/repository"
	cartService "shopcart-backend/internal/domains/cart/service"
	couponHandler "shopcart-backend/internal/domains/coupon/handler"
	couponRepo "shopcart-backend/internal/domains/coupon/repository"
	couponService "shopcart-backend/internal/domains/coupon/service"
	productHandler "shopcart-backend/internal/domains/product/handler"
	productRepo "shopcart-backend/internal/domains/product/repository"
	productService "shopcart-backend/internal/domains/product/service"
	"shopcart-backend/internal/infrastructure/cache"
	"shopcart-backend/internal/infrastructure/database"
	"shopcart-backend/pkg/lock"
	"shopcart-backend/pkg/logger"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup; a wiring failure aborts boot.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       *cache.RedisClient
	LockManager lock.Manager

	ProductRepo     productRepo.RepositoryInterface
	CouponRepo      couponRepo.RepositoryInterface
	CouponUsageRepo couponRepo.UsageRepositoryInterface
	CartRepo        cartRepo.RepositoryInterface

	ProductService productService.ServiceInterface
	CouponService  couponService.ServiceInterface
	CartService    cartService.ServiceInterface

	ProductHandler *productHandler.Handler
	CouponHandler  *couponHandler.Handler
	CartHandler    *cartHandler.Handler
}

func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.App.Environment)

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(); err != nil {
		c.Cleanup()
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", map[string]interface{}{
		"env": cfg.App.Environment,
	})
	return c, nil
}

func (c *Container) initInfrastructure() error {
	ctx := context.Background()

	c.DB = database.NewPostgresDB(&c.Config.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	c.Cache = cache.NewRedisClient(&c.Config.Redis)
	if err := c.Cache.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.LockManager = lock.NewRedisManager(c.Cache.Client, c.Config.Lock.RetryCount, c.Config.Lock.RetryDelay)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool
	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.CouponRepo = couponRepo.NewPostgresRepository(pool)
	c.CouponUsageRepo = couponRepo.NewPostgresUsageRepository(pool)
	c.CartRepo = cartRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.ProductService = productService.NewProductService(c.ProductRepo)
	c.CouponService = couponService.NewCouponService(c.CouponRepo, c.CouponUsageRepo, c.LockManager, c.Config.Lock.TTL)
	c.CartService = cartService.NewCartService(c.CartRepo, c.ProductService, c.CouponService)
}

func (c *Container) initHandlers() {
	c.ProductHandler = productHandler.NewHandler(c.ProductService)
	c.CouponHandler = couponHandler.NewHandler(c.CouponService, c.CartService)
	c.CartHandler = cartHandler.NewHandler(c.CartService)
}

// Cleanup releases infrastructure resources in reverse order of creation.
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("failed to close redis client", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	logger.Info("container cleaned up", nil)
}
