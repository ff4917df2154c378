package job

import (
	"context"
	"fmt"
	"time"

	"shopcart-backend/internal/domains/coupon/service"
	"shopcart-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// TypeDeactivateExpiredCoupons is the task type for the periodic sweep
// that flips is_active off on coupons past their expiry time.
const TypeDeactivateExpiredCoupons = "coupon:deactivate_expired"

type DeactivateExpiredHandler struct {
	service service.ServiceInterface
}

func NewDeactivateExpiredHandler(service service.ServiceInterface) *DeactivateExpiredHandler {
	return &DeactivateExpiredHandler{service: service}
}

func (h *DeactivateExpiredHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	started := time.Now()

	count, err := h.service.DeactivateExpired(ctx)
	if err != nil {
		logger.Error("expired coupon sweep failed", err)
		return fmt.Errorf("deactivate expired coupons: %w", err)
	}

	logger.Info("expired coupon sweep completed", map[string]interface{}{
		"deactivated": count,
		"duration":    time.Since(started).String(),
	})
	return nil
}
