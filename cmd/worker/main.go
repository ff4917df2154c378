package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	cartJob "shopcart-backend/internal/domains/cart/job"
	couponJob "shopcart-backend/internal/domains/coupon/job"
	"shopcart-backend/pkg/container"
	"shopcart-backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	appContainer, err := container.NewContainer()
	if err != nil {
		log.Fatalf("failed to initialize container: %v", err)
	}
	defer appContainer.Cleanup()

	redisOpt := asynq.RedisClientOpt{
		Addr:     appContainer.Config.Redis.Addr,
		Password: appContainer.Config.Redis.Password,
		DB:       appContainer.Config.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: appContainer.Config.Worker.Concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.Handle(couponJob.TypeDeactivateExpiredCoupons, couponJob.NewDeactivateExpiredHandler(appContainer.CouponService))
	mux.Handle(cartJob.TypePurgeStaleCarts, cartJob.NewPurgeStaleCartsHandler(
		appContainer.CartRepo,
		appContainer.Config.Worker.StaleCartRetentionDays,
	))

	scheduler := newScheduler(redisOpt, &appContainer.Config.Worker)
	if err := scheduler.register(); err != nil {
		log.Fatalf("failed to register scheduled jobs: %v", err)
	}
	go func() {
		if err := scheduler.run(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	go func() {
		logger.Info("worker starting", map[string]interface{}{
			"concurrency": appContainer.Config.Worker.Concurrency,
		})
		if err := srv.Run(mux); err != nil {
			log.Fatalf("failed to start worker: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker", nil)
	scheduler.shutdown()
	srv.Shutdown()
	logger.Info("worker exited", nil)
}
