package worker

import (
	"context"
	"errors"
	"time"

	"github.com/feira-next/internal/config"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/queue"

	"github.com/hibiken/asynq"
)

func newSweepTicker(cfg *config.Config) *time.Ticker {
	return time.NewTicker(cfg.Cart.SweepInterval())
}

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go s.runArchiveSweepLoop(ctx)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runArchiveSweepLoop 按固定周期把归档任务推进队列，
// 执行由消费端完成，多实例下任务幂等
func (s *Service) runArchiveSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.Container == nil {
		return
	}
	cfg := s.consumer.Config
	runOnce := func() {
		if s.consumer.QueueClient.Enabled() {
			if err := s.consumer.QueueClient.EnqueueCartArchiveSweep(cfg.Cart.AbandonedAfterDays); err != nil {
				logger.Warnw("worker_archive_sweep_enqueue_failed", "error", err)
			}
			return
		}
		_ = s.consumer.ArchiveIdleCarts(cfg.Cart.AbandonedAfterDays)
	}
	runOnce()

	ticker := newSweepTicker(cfg)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
