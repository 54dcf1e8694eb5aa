package app

import (
	"context"
	"errors"

	"github.com/feira-next/internal/service"
)

// WatchdogService 购物车促销看门狗的服务封装
type WatchdogService struct {
	watchdog *service.CartWatchdog
}

// NewWatchdogService 创建看门狗服务
func NewWatchdogService(watchdog *service.CartWatchdog) *WatchdogService {
	return &WatchdogService{watchdog: watchdog}
}

// Name 服务名称
func (s *WatchdogService) Name() string {
	return "cart_watchdog"
}

// Start 启动看门狗并阻塞至上下文取消
func (s *WatchdogService) Start(ctx context.Context) error {
	if s == nil || s.watchdog == nil {
		return errors.New("cart watchdog not initialized")
	}
	s.watchdog.Start(ctx)
	<-ctx.Done()
	return nil
}

// Stop 停止看门狗
func (s *WatchdogService) Stop(ctx context.Context) error {
	if s == nil || s.watchdog == nil {
		return nil
	}
	s.watchdog.Stop()
	return nil
}
