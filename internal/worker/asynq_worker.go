package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/provider"
	"github.com/feira-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPointsAward, c.handleOrderPointsAward)
	mux.HandleFunc(queue.TaskCartArchiveSweep, c.handleCartArchiveSweep)
}

// handleOrderPointsAward 订单积分发放，LoyaltyService 按订单去重，可重试
func (c *Consumer) handleOrderPointsAward(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderPointsAwardPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_points_award_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_points_award_skip_invalid_payload")
		return nil
	}
	if err := c.LoyaltyService.AwardForOrder(payload.OrderID); err != nil {
		logger.Warnw("worker_points_award_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

// handleCartArchiveSweep 废弃购物车归档
func (c *Consumer) handleCartArchiveSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.CartArchiveSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_archive_sweep_unmarshal_failed", "error", err)
		return err
	}
	idleDays := payload.IdleDays
	if idleDays <= 0 {
		idleDays = c.Config.Cart.AbandonedAfterDays
	}
	return c.ArchiveIdleCarts(idleDays)
}

// ArchiveIdleCarts 将超过闲置阈值的 active 购物车转为 archived。
// archived 为终态，用户下次加购会新建购物车。
func (c *Consumer) ArchiveIdleCarts(idleDays int) error {
	if idleDays <= 0 {
		idleDays = 15
	}
	cutoff := time.Now().AddDate(0, 0, -idleDays)
	carts, err := c.CartRepo.ListIdleActive(cutoff)
	if err != nil {
		logger.Errorw("worker_archive_sweep_list_failed", "error", err)
		return err
	}
	archived := 0
	for i := range carts {
		if err := c.CartRepo.Archive(carts[i].ID, time.Now()); err != nil {
			logger.Warnw("worker_archive_cart_failed", "cart_id", carts[i].ID, "error", err)
			continue
		}
		archived++
	}
	if archived > 0 {
		logger.Infow("worker_idle_carts_archived",
			"count", archived,
			"idle_days", idleDays,
			"status", constants.CartStatusArchived,
		)
	}
	return nil
}
