package job

import (
	"context"
	"fmt"
	"time"

	"shopcart-backend/internal/domains/cart/repository"
	"shopcart-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// TypePurgeStaleCarts is the task type for the nightly sweep that drops
// carts nobody has touched within the retention window.
const TypePurgeStaleCarts = "cart:purge_stale"

type PurgeStaleCartsHandler struct {
	carts         repository.RepositoryInterface
	retentionDays int
}

func NewPurgeStaleCartsHandler(carts repository.RepositoryInterface, retentionDays int) *PurgeStaleCartsHandler {
	return &PurgeStaleCartsHandler{carts: carts, retentionDays: retentionDays}
}

func (h *PurgeStaleCartsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	started := time.Now()
	cutoff := started.AddDate(0, 0, -h.retentionDays)

	count, err := h.carts.PurgeStaleCarts(ctx, cutoff)
	if err != nil {
		logger.Error("stale cart purge failed", err)
		return fmt.Errorf("purge stale carts: %w", err)
	}

	logger.Info("stale cart purge completed", map[string]interface{}{
		"purged":   count,
		"cutoff":   cutoff.Format(time.RFC3339),
		"duration": time.Since(started).String(),
	})
	return nil
}
