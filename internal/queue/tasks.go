package queue

import (
	"encoding/json"

	"github.com/feira-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPointsAward 订单积分发放任务
	TaskOrderPointsAward = constants.TaskOrderPointsAward
	// TaskCartArchiveSweep 废弃购物车归档任务
	TaskCartArchiveSweep = constants.TaskCartArchiveSweep
)

// OrderPointsAwardPayload 积分发放任务载荷
type OrderPointsAwardPayload struct {
	OrderID uint `json:"order_id"`
}

// CartArchiveSweepPayload 归档任务载荷
type CartArchiveSweepPayload struct {
	IdleDays int `json:"idle_days"`
}

// NewOrderPointsAwardTask 创建积分发放任务
func NewOrderPointsAwardTask(payload OrderPointsAwardPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPointsAward, body), nil
}

// NewCartArchiveSweepTask 创建归档任务
func NewCartArchiveSweepTask(payload CartArchiveSweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartArchiveSweep, body), nil
}
