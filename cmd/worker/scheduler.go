package main

import (
	"fmt"

	"shopcart-backend/internal/config"
	cartJob "shopcart-backend/internal/domains/cart/job"
	couponJob "shopcart-backend/internal/domains/coupon/job"
	"shopcart-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

type scheduler struct {
	inner *asynq.Scheduler
	cfg   *config.WorkerConfig
}

func newScheduler(redisOpt asynq.RedisClientOpt, cfg *config.WorkerConfig) *scheduler {
	return &scheduler{
		inner: asynq.NewScheduler(redisOpt, nil),
		cfg:   cfg,
	}
}

func (s *scheduler) register() error {
	entries := []struct {
		cron     string
		taskType string
	}{
		{s.cfg.CouponExpiryCron, couponJob.TypeDeactivateExpiredCoupons},
		{s.cfg.StaleCartPurgeCron, cartJob.TypePurgeStaleCarts},
	}

	for _, e := range entries {
		entryID, err := s.inner.Register(e.cron, asynq.NewTask(e.taskType, nil))
		if err != nil {
			return fmt.Errorf("register %s: %w", e.taskType, err)
		}
		logger.Info("scheduled job registered", map[string]interface{}{
			"task":    e.taskType,
			"cron":    e.cron,
			"entryId": entryID,
		})
	}
	return nil
}

func (s *scheduler) run() error {
	return s.inner.Run()
}

func (s *scheduler) shutdown() {
	s.inner.Shutdown()
}
