package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/feira-next/internal/cache"
	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/notice"
	"github.com/feira-next/internal/repository"
)

const notifiedSetTTL = 24 * time.Hour

// CartWatchdog 促销看门狗：周期 + 购物车变更双触发，
// 驱逐促销过期的购物车行并对临近结束的促销发提醒
type CartWatchdog struct {
	cartRepo  repository.CartRepository
	cartSvc   *CartService
	evaluator *PromotionEvaluator
	notifier  notice.Notifier

	interval   time.Duration
	soonWindow time.Duration
	now        func() time.Time

	mu          sync.Mutex
	notified    map[string]struct{}
	lastChecked time.Time

	trigger chan uint
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewCartWatchdog 创建看门狗
func NewCartWatchdog(cartRepo repository.CartRepository, cartSvc *CartService, evaluator *PromotionEvaluator, notifier notice.Notifier, interval, soonWindow time.Duration) *CartWatchdog {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if soonWindow <= 0 {
		soonWindow = time.Hour
	}
	return &CartWatchdog{
		cartRepo:   cartRepo,
		cartSvc:    cartSvc,
		evaluator:  evaluator,
		notifier:   notifier,
		interval:   interval,
		soonWindow: soonWindow,
		now:        time.Now,
		notified:   make(map[string]struct{}),
		trigger:    make(chan uint, 64),
	}
}

// SetClock 替换时钟（测试用）
func (w *CartWatchdog) SetClock(now func() time.Time) {
	if now != nil {
		w.now = now
	}
}

// Start 启动后台循环，通过 Stop 或 ctx 取消
func (w *CartWatchdog) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.run(ctx)
	logger.Infow("cart_watchdog_started",
		"interval", w.interval.String(),
		"ending_soon_window", w.soonWindow.String(),
	)
}

// Stop 停止后台循环并等待退出
func (w *CartWatchdog) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	logger.Infow("cart_watchdog_stopped")
}

// OnCartChanged 购物车变更即时触发，慢消费时丢弃（周期触发兜底）
func (w *CartWatchdog) OnCartChanged(userID uint) {
	select {
	case w.trigger <- userID:
	default:
	}
}

func (w *CartWatchdog) run(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.RunPass(ctx)
		case userID := <-w.trigger:
			w.RunPassForUser(ctx, userID)
		}
	}
}

// RunPass 对全部 active 购物车跑一轮校验，单车失败不影响其余
func (w *CartWatchdog) RunPass(ctx context.Context) {
	carts, err := w.cartRepo.ListActiveWithItems()
	if err != nil {
		logger.Errorw("cart_watchdog_list_failed", "error", err)
		return
	}
	for i := range carts {
		w.validateCart(ctx, &carts[i])
	}
	w.mu.Lock()
	w.lastChecked = w.now()
	w.mu.Unlock()
}

// RunPassForUser 对单个用户的 active 购物车跑一轮校验
func (w *CartWatchdog) RunPassForUser(ctx context.Context, userID uint) {
	if userID == 0 {
		return
	}
	cart, err := w.cartRepo.GetActive(userID)
	if err != nil {
		logger.Errorw("cart_watchdog_get_failed", "user_id", userID, "error", err)
		return
	}
	if cart == nil {
		return
	}
	items, err := w.cartRepo.ListItems(cart.ID)
	if err != nil {
		logger.Errorw("cart_watchdog_items_failed", "cart_id", cart.ID, "error", err)
		return
	}
	cart.Items = items
	w.validateCart(ctx, cart)
}

// validateCart 单购物车校验：先驱逐过期行，再发临近结束提醒
func (w *CartWatchdog) validateCart(ctx context.Context, cart *models.Cart) {
	if cart == nil || len(cart.Items) == 0 {
		return
	}
	now := w.now()

	var expired []models.CartItem
	var valid []models.CartItem
	for _, item := range cart.Items {
		if item.Product == nil || item.Product.ID == 0 {
			continue
		}
		window := w.evaluator.Evaluate(item.Product, now)
		if item.Product.PromoActive && window.IsExpired {
			expired = append(expired, item)
		} else {
			valid = append(valid, item)
		}
	}

	if len(expired) > 0 {
		removed := 0
		firstName := ""
		for _, item := range expired {
			if err := w.cartSvc.RemoveItem(cart.UserID, item.ID); err != nil {
				logger.Warnw("cart_watchdog_remove_failed",
					"cart_id", cart.ID,
					"item_id", item.ID,
					"error", err,
				)
				continue
			}
			removed++
			if firstName == "" && item.Product != nil {
				firstName = item.Product.Name
			}
			logger.Infow("cart_item_promo_expired_removed",
				"cart_id", cart.ID,
				"item_id", item.ID,
				"product_id", item.ProductID,
			)
		}
		if removed == 1 {
			w.notifier.Notify(cart.UserID, constants.NoticeSeverityWarning,
				fmt.Sprintf("%q foi removido do carrinho: a promoção terminou", firstName))
		} else if removed > 1 {
			w.notifier.Notify(cart.UserID, constants.NoticeSeverityWarning,
				fmt.Sprintf("%d itens foram removidos do carrinho: as promoções terminaram", removed))
		}
	}

	for _, item := range valid {
		product := item.Product
		if !product.PromoActive || product.PromoEndsAt == nil {
			continue
		}
		window := w.evaluator.Evaluate(product, now)
		if !window.IsActive {
			continue
		}
		remaining := product.PromoEndsAt.Sub(now)
		if remaining <= 0 || remaining > w.soonWindow {
			continue
		}
		key := fmt.Sprintf("%d:%d", cart.ID, product.ID)
		if w.alreadyNotified(ctx, cart.ID, key) {
			continue
		}
		w.markNotified(ctx, cart.ID, key)
		w.notifier.Notify(cart.UserID, constants.NoticeSeverityInfo,
			fmt.Sprintf("A promoção de %q termina em breve", product.Name))
	}
}

// LastChecked 最近一次全量校验时间
func (w *CartWatchdog) LastChecked() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastChecked
}

func notifiedCacheKey(cartID uint) string {
	return fmt.Sprintf("watchdog:notified:%d", cartID)
}

func (w *CartWatchdog) alreadyNotified(ctx context.Context, cartID uint, key string) bool {
	w.mu.Lock()
	_, ok := w.notified[key]
	w.mu.Unlock()
	if ok {
		return true
	}
	if cache.Enabled() {
		found, err := cache.SetContains(ctx, notifiedCacheKey(cartID), key)
		if err != nil {
			logger.Warnw("cart_watchdog_notified_lookup_failed", "key", key, "error", err)
			return false
		}
		return found
	}
	return false
}

func (w *CartWatchdog) markNotified(ctx context.Context, cartID uint, key string) {
	w.mu.Lock()
	w.notified[key] = struct{}{}
	w.mu.Unlock()
	if cache.Enabled() {
		if err := cache.SetAdd(ctx, notifiedCacheKey(cartID), key, notifiedSetTTL); err != nil {
			logger.Warnw("cart_watchdog_notified_store_failed", "key", key, "error", err)
		}
	}
}
