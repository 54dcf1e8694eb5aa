package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newCouponTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Coupon{}, &models.CouponUsage{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedCoupon(t *testing.T, db *gorm.DB, coupon *models.Coupon) *models.Coupon {
	t.Helper()
	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	return coupon
}

func TestValidateCouponLifecycle(t *testing.T) {
	db := newCouponTestDB(t, "coupon_lifecycle")
	svc := NewCouponService(repository.NewCouponRepository(db))

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	seedCoupon(t, db, &models.Coupon{
		Code: "VALIDA10", Type: constants.CouponTypePercent,
		Value: models.NewMoneyFromInt(10), IsActive: true, EndsAt: &future,
	})
	seedCoupon(t, db, &models.Coupon{
		Code: "VENCIDA", Type: constants.CouponTypePercent,
		Value: models.NewMoneyFromInt(10), IsActive: true, EndsAt: &past,
	})
	seedCoupon(t, db, &models.Coupon{
		Code: "FUTURA", Type: constants.CouponTypePercent,
		Value: models.NewMoneyFromInt(10), IsActive: true, StartsAt: &future,
	})

	if _, err := svc.Validate("valida10", 1, models.NewMoneyFromInt(100)); err != nil {
		t.Fatalf("lowercase code must resolve, got: %v", err)
	}
	if _, err := svc.Validate("VENCIDA", 1, models.NewMoneyFromInt(100)); !errors.Is(err, ErrCouponExpired) {
		t.Fatalf("err = %v, want ErrCouponExpired", err)
	}
	if _, err := svc.Validate("FUTURA", 1, models.NewMoneyFromInt(100)); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("err = %v, want ErrCouponInvalid before start", err)
	}
	if _, err := svc.Validate("INEXISTENTE", 1, models.NewMoneyFromInt(100)); !errors.Is(err, ErrCouponInvalid) {
		t.Fatalf("err = %v, want ErrCouponInvalid for unknown code", err)
	}
}

func TestValidateCouponLimits(t *testing.T) {
	db := newCouponTestDB(t, "coupon_limits")
	svc := NewCouponService(repository.NewCouponRepository(db))

	exhausted := seedCoupon(t, db, &models.Coupon{
		Code: "ESGOTADA", Type: constants.CouponTypeFixed,
		Value: models.NewMoneyFromInt(5), IsActive: true,
		UsageLimit: 2, UsedCount: 2,
	})
	if _, err := svc.Validate(exhausted.Code, 1, models.NewMoneyFromInt(100)); !errors.Is(err, ErrCouponExhausted) {
		t.Fatalf("err = %v, want ErrCouponExhausted", err)
	}

	perUser := seedCoupon(t, db, &models.Coupon{
		Code: "UMAVEZ", Type: constants.CouponTypeFixed,
		Value: models.NewMoneyFromInt(5), IsActive: true, PerUserLimit: 1,
	})
	if err := db.Create(&models.CouponUsage{CouponID: perUser.ID, UserID: 1, OrderID: 1}).Error; err != nil {
		t.Fatalf("create usage failed: %v", err)
	}
	if _, err := svc.Validate(perUser.Code, 1, models.NewMoneyFromInt(100)); !errors.Is(err, ErrCouponExhausted) {
		t.Fatalf("err = %v, want ErrCouponExhausted for per-user limit", err)
	}
	if _, err := svc.Validate(perUser.Code, 2, models.NewMoneyFromInt(100)); err != nil {
		t.Fatalf("other user must still validate, got: %v", err)
	}

	minAmount := seedCoupon(t, db, &models.Coupon{
		Code: "ACIMA50", Type: constants.CouponTypeFixed,
		Value: models.NewMoneyFromInt(5), IsActive: true,
		MinAmount: models.NewMoneyFromInt(50),
	})
	if _, err := svc.Validate(minAmount.Code, 1, models.NewMoneyFromInt(40)); !errors.Is(err, ErrCouponMinAmount) {
		t.Fatalf("err = %v, want ErrCouponMinAmount", err)
	}
}

func TestCouponDiscountComputation(t *testing.T) {
	svc := NewCouponService(nil)

	percent := &models.Coupon{Type: constants.CouponTypePercent, Value: models.NewMoneyFromInt(10)}
	if got := svc.Discount(percent, models.NewMoneyFromInt(80)); !got.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("percent discount = %s, want 8.00", got)
	}

	fixed := &models.Coupon{Type: constants.CouponTypeFixed, Value: models.NewMoneyFromInt(15)}
	if got := svc.Discount(fixed, models.NewMoneyFromInt(80)); !got.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("fixed discount = %s, want 15.00", got)
	}
	if got := svc.Discount(fixed, models.NewMoneyFromInt(10)); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("discount = %s, must be capped at subtotal", got)
	}

	capped := &models.Coupon{
		Type: constants.CouponTypePercent, Value: models.NewMoneyFromInt(50),
		MaxDiscount: models.NewMoneyFromInt(20),
	}
	if got := svc.Discount(capped, models.NewMoneyFromInt(100)); !got.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("discount = %s, want max_discount cap 20.00", got)
	}
}
