package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"gorm.io/gorm"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []string
}

func (n *recordingNotifier) Notify(_ uint, severity, message string) {
	n.mu.Lock()
	n.notices = append(n.notices, severity+": "+message)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.notices...)
}

func setPromo(t *testing.T, db *gorm.DB, productID uint, endsAt time.Time) {
	t.Helper()
	updates := map[string]interface{}{
		"promo_price_amount": "8.00",
		"promo_active":       true,
		"promo_ends_at":      endsAt,
	}
	if err := db.Model(&models.Product{}).Where("id = ?", productID).Updates(updates).Error; err != nil {
		t.Fatalf("set promo failed: %v", err)
	}
}

func newWatchdogForTest(db *gorm.DB, notifier *recordingNotifier) (*CartWatchdog, *CartService) {
	cartRepo := repository.NewCartRepository(db)
	svc := newCartServiceForTest(db)
	watchdog := NewCartWatchdog(cartRepo, svc, NewPromotionEvaluator(time.UTC), notifier, 30*time.Second, time.Hour)
	return watchdog, svc
}

func TestWatchdogRemovesExpiredPromotions(t *testing.T) {
	db := newCartTestDB(t, "watchdog_expired")
	expired := seedProduct(t, db, 10)
	active := seedProduct(t, db, 10)
	notifier := &recordingNotifier{}
	watchdog, svc := newWatchdogForTest(db, notifier)

	if err := svc.AddItem(1, expired.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddItem(1, active.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	setPromo(t, db, expired.ID, time.Now().Add(-time.Hour))
	setPromo(t, db, active.ID, time.Now().Add(24*time.Hour))

	watchdog.RunPass(context.Background())

	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("cart has %d items, want 1 after eviction", len(details))
	}
	if details[0].ProductID != active.ID {
		t.Fatal("the non-expired item must survive")
	}

	notices := notifier.all()
	if len(notices) != 1 {
		t.Fatalf("got %d notices, want exactly 1 aggregate removal notice: %v", len(notices), notices)
	}
	if !strings.Contains(notices[0], expired.Name) {
		t.Fatalf("singular notice must name the product, got: %s", notices[0])
	}
}

func TestWatchdogPluralRemovalNotice(t *testing.T) {
	db := newCartTestDB(t, "watchdog_plural")
	first := seedProduct(t, db, 10)
	second := seedProduct(t, db, 10)
	notifier := &recordingNotifier{}
	watchdog, svc := newWatchdogForTest(db, notifier)

	if err := svc.AddItem(1, first.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddItem(1, second.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	setPromo(t, db, first.ID, time.Now().Add(-time.Hour))
	setPromo(t, db, second.ID, time.Now().Add(-time.Hour))

	watchdog.RunPass(context.Background())

	notices := notifier.all()
	if len(notices) != 1 {
		t.Fatalf("got %d notices, want 1 aggregate notice: %v", len(notices), notices)
	}
	if !strings.Contains(notices[0], "2 itens") {
		t.Fatalf("plural notice must carry the count, got: %s", notices[0])
	}
}

func TestWatchdogEndingSoonNotice(t *testing.T) {
	db := newCartTestDB(t, "watchdog_soon")
	product := seedProduct(t, db, 10)
	notifier := &recordingNotifier{}
	watchdog, svc := newWatchdogForTest(db, notifier)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	setPromo(t, db, product.ID, time.Now().Add(30*time.Minute))

	watchdog.RunPass(context.Background())

	notices := notifier.all()
	if len(notices) != 1 {
		t.Fatalf("got %d notices, want 1 ending-soon notice: %v", len(notices), notices)
	}
	if !strings.Contains(notices[0], product.Name) {
		t.Fatalf("ending-soon notice must name the product, got: %s", notices[0])
	}

	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatal("ending-soon item must not be removed")
	}
}

// 无外部变化时重复跑一轮不得产生新驱逐或重复提醒
func TestWatchdogIdempotentPass(t *testing.T) {
	db := newCartTestDB(t, "watchdog_idempotent")
	expired := seedProduct(t, db, 10)
	soon := seedProduct(t, db, 10)
	notifier := &recordingNotifier{}
	watchdog, svc := newWatchdogForTest(db, notifier)

	if err := svc.AddItem(1, expired.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddItem(1, soon.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	setPromo(t, db, expired.ID, time.Now().Add(-time.Hour))
	setPromo(t, db, soon.ID, time.Now().Add(30*time.Minute))

	ctx := context.Background()
	watchdog.RunPass(ctx)
	first := len(notifier.all())

	watchdog.RunPass(ctx)
	second := notifier.all()

	if len(second) != first {
		t.Fatalf("second pass added notices: before %d, after %d (%v)", first, len(second), second)
	}
	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("cart has %d items, want 1 stable after repeated passes", len(details))
	}
}

func TestWatchdogFarFutureNoNotice(t *testing.T) {
	db := newCartTestDB(t, "watchdog_far")
	product := seedProduct(t, db, 10)
	notifier := &recordingNotifier{}
	watchdog, svc := newWatchdogForTest(db, notifier)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	setPromo(t, db, product.ID, time.Now().Add(48*time.Hour))

	watchdog.RunPass(context.Background())
	if notices := notifier.all(); len(notices) != 0 {
		t.Fatalf("got notices for far-future promotion: %v", notices)
	}
}

func TestWatchdogStartStop(t *testing.T) {
	db := newCartTestDB(t, "watchdog_lifecycle")
	notifier := &recordingNotifier{}
	watchdog, _ := newWatchdogForTest(db, notifier)

	watchdog.Start(context.Background())
	watchdog.OnCartChanged(1)
	watchdog.Stop()
}
