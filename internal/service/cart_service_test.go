package service

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCartTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Store{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

var seedSeq uint64

func seedProduct(t *testing.T, db *gorm.DB, stock int64) *models.Product {
	t.Helper()
	seq := atomic.AddUint64(&seedSeq, 1)
	store := models.Store{Slug: fmt.Sprintf("loja-%d", seq), Name: "Loja Teste", IsActive: true}
	if err := db.Create(&store).Error; err != nil {
		t.Fatalf("create store failed: %v", err)
	}
	product := models.Product{
		StoreID:     store.ID,
		CategoryID:  1,
		Slug:        fmt.Sprintf("produto-%d", seq),
		Name:        "Feijão Carioca 1kg",
		PriceAmount: models.NewMoneyFromInt(10),
		Stock:       models.NewQuantityFromInt(stock),
		UnitType:    "unit",
		UnitStep:    models.NewQuantityFromInt(1),
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return &product
}

func newCartServiceForTest(db *gorm.DB) *CartService {
	return NewCartService(
		repository.NewCartRepository(db),
		repository.NewProductRepository(db),
		NewPromotionEvaluator(time.UTC),
	)
}

func TestAddItemInsufficientStock(t *testing.T) {
	db := newCartTestDB(t, "cart_add_stock")
	product := seedProduct(t, db, 3)
	svc := newCartServiceForTest(db)

	err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(5))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("cart has %d items, want 0 after rejected add", len(details))
	}
}

func TestAddItemAccumulatesAgainstStock(t *testing.T) {
	db := newCartTestDB(t, "cart_add_accumulate")
	product := seedProduct(t, db, 5)
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(3)); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(2)); err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock once stock is exhausted", err)
	}

	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("cart has %d lines, want 1 merged line", len(details))
	}
	if !details[0].Quantity.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("quantity = %s, want 5", details[0].Quantity)
	}
}

func TestUpdateQuantityValidatesStock(t *testing.T) {
	db := newCartTestDB(t, "cart_update_stock")
	product := seedProduct(t, db, 4)
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	details, _ := svc.ListByUser(1, constants.UserRoleConsumer)
	itemID := details[0].ItemID

	if err := svc.UpdateQuantity(1, itemID, models.NewQuantityFromInt(4)); err != nil {
		t.Fatalf("update within stock failed: %v", err)
	}
	err := svc.UpdateQuantity(1, itemID, models.NewQuantityFromInt(6))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}

	details, _ = svc.ListByUser(1, constants.UserRoleConsumer)
	if !details[0].Quantity.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("quantity = %s, want last successful value 4", details[0].Quantity)
	}
}

func TestUpdateQuantityItemNotFound(t *testing.T) {
	db := newCartTestDB(t, "cart_update_missing")
	svc := newCartServiceForTest(db)

	err := svc.UpdateQuantity(1, 999, models.NewQuantityFromInt(1))
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}

func TestRemoveItemIdempotent(t *testing.T) {
	db := newCartTestDB(t, "cart_remove")
	product := seedProduct(t, db, 3)
	svc := newCartServiceForTest(db)

	if err := svc.RemoveItem(1, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for zero id", err)
	}

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	details, _ := svc.ListByUser(1, constants.UserRoleConsumer)
	itemID := details[0].ItemID

	if err := svc.RemoveItem(1, itemID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.RemoveItem(1, itemID); err != nil {
		t.Fatalf("second remove must be a no-op, got: %v", err)
	}
}

func TestReAddAfterRemove(t *testing.T) {
	db := newCartTestDB(t, "cart_readd_remove")
	product := seedProduct(t, db, 5)
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	details, _ := svc.ListByUser(1, constants.UserRoleConsumer)
	if err := svc.RemoveItem(1, details[0].ItemID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	// 删除后同商品必须可以重新加购（物理删除，唯一索引已释放）
	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("re-add after remove failed: %v", err)
	}
	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("cart has %d lines, want 1 after re-add", len(details))
	}
	if !details[0].Quantity.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("quantity = %s, want fresh line with 1", details[0].Quantity)
	}
}

func TestReAddAfterClear(t *testing.T) {
	db := newCartTestDB(t, "cart_readd_clear")
	first := seedProduct(t, db, 5)
	second := seedProduct(t, db, 5)
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, first.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddItem(1, second.ID, models.NewQuantityFromInt(2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.ClearCart(1); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if err := svc.AddItem(1, first.ID, models.NewQuantityFromInt(3)); err != nil {
		t.Fatalf("re-add after clear failed: %v", err)
	}
	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 || !details[0].Quantity.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("cart = %+v, want one fresh line with quantity 3", details)
	}
}

func TestCartPointsFollowUserRole(t *testing.T) {
	db := newCartTestDB(t, "cart_points_role")
	product := seedProduct(t, db, 5)
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"points_consumer": 5, "points_professional": 8}).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if details[0].Points != 5 {
		t.Fatalf("consumer points = %d, want 5", details[0].Points)
	}

	details, err = svc.ListByUser(1, constants.UserRoleProfessional)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if details[0].Points != 8 {
		t.Fatalf("professional points = %d, want 8", details[0].Points)
	}
}

func TestClearCartNoActiveCart(t *testing.T) {
	db := newCartTestDB(t, "cart_clear_none")
	svc := newCartServiceForTest(db)

	if err := svc.ClearCart(1); err != nil {
		t.Fatalf("clear without cart must succeed, got: %v", err)
	}
}

func TestClearCartRemovesAllLines(t *testing.T) {
	db := newCartTestDB(t, "cart_clear")
	first := seedProduct(t, db, 3)
	second := seedProduct(t, db, 3)
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, first.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddItem(1, second.ID, models.NewQuantityFromInt(2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.ClearCart(1); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 0 {
		t.Fatalf("cart has %d items after clear, want 0", len(details))
	}
}

type failingTouchCartRepo struct {
	repository.CartRepository
}

func (r *failingTouchCartRepo) Touch(cartID uint, now time.Time) error {
	return errors.New("touch unavailable")
}

func TestMutationSucceedsWhenTouchFails(t *testing.T) {
	db := newCartTestDB(t, "cart_touch_fail")
	product := seedProduct(t, db, 5)
	svc := NewCartService(
		&failingTouchCartRepo{CartRepository: repository.NewCartRepository(db)},
		repository.NewProductRepository(db),
		NewPromotionEvaluator(time.UTC),
	)

	// 活跃时间续期失败只记日志，不阻断写操作
	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add must succeed despite failing touch, got: %v", err)
	}
	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("cart has %d lines, want 1", len(details))
	}
}

func TestSingleActiveCartPerUser(t *testing.T) {
	db := newCartTestDB(t, "cart_single_active")
	product := seedProduct(t, db, 10)
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(1)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Cart{}).Where("user_id = ? AND status = ?", 1, "active").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("user has %d active carts, want exactly 1", count)
	}
}

func TestSubtotalRecomputedFromEffectivePrice(t *testing.T) {
	db := newCartTestDB(t, "cart_subtotal_recompute")
	product := seedProduct(t, db, 10)
	svc := newCartServiceForTest(db)

	if err := svc.AddItem(1, product.ID, models.NewQuantityFromInt(2)); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	endsAt := time.Now().Add(time.Hour)
	updates := map[string]interface{}{
		"promo_price_amount": "8.00",
		"promo_active":       true,
		"promo_ends_at":      endsAt,
	}
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}

	details, err := svc.ListByUser(1, constants.UserRoleConsumer)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !details[0].UnitPrice.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("unit price = %s, want current promo price 8.00", details[0].UnitPrice)
	}
	if !details[0].Subtotal.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("subtotal = %s, want 16.00 recomputed from effective price", details[0].Subtotal)
	}
	if !details[0].CapturedPrice.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("captured price = %s, want original 10.00 kept as reference", details[0].CapturedPrice)
	}
}

func TestAddItemBelowUnitStep(t *testing.T) {
	db := newCartTestDB(t, "cart_unit_step")
	product := seedProduct(t, db, 10)
	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"unit_type": "kg", "unit_step": "0.500"}).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	svc := newCartServiceForTest(db)

	err := svc.AddItem(1, product.ID, models.NewQuantityFromDecimal(decimal.NewFromFloat(0.25)))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput below unit step", err)
	}
	if err := svc.AddItem(1, product.ID, models.NewQuantityFromDecimal(decimal.NewFromFloat(1.5))); err != nil {
		t.Fatalf("fractional add failed: %v", err)
	}
}
