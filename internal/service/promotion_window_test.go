package service

import (
	"testing"
	"time"

	"github.com/feira-next/internal/models"

	"github.com/shopspring/decimal"
)

func promoProduct(normal, promo int64, startsAt, endsAt *time.Time) *models.Product {
	return &models.Product{
		Name:             "Arroz Tipo 1 5kg",
		PriceAmount:      models.NewMoneyFromInt(normal),
		PromoPriceAmount: models.NewMoneyFromInt(promo),
		PromoActive:      true,
		PromoStartsAt:    startsAt,
		PromoEndsAt:      endsAt,
	}
}

func TestEvaluateExpiredPromotion(t *testing.T) {
	evaluator := NewPromotionEvaluator(time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	endsAt := now.Add(-time.Hour)

	window := evaluator.Evaluate(promoProduct(100, 80, nil, &endsAt), now)

	if window.IsActive {
		t.Fatal("expected inactive promotion")
	}
	if !window.IsExpired {
		t.Fatal("expected expired promotion")
	}
	if !window.EffectivePrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("effective price = %s, want 100.00", window.EffectivePrice)
	}
	if window.DiscountPercent != 0 {
		t.Fatalf("discount percent = %d, want 0", window.DiscountPercent)
	}
}

func TestEvaluateActivePromotion(t *testing.T) {
	evaluator := NewPromotionEvaluator(time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	endsAt := now.Add(time.Hour)

	window := evaluator.Evaluate(promoProduct(100, 80, nil, &endsAt), now)

	if !window.IsActive {
		t.Fatal("expected active promotion")
	}
	if window.IsExpired {
		t.Fatal("expected non-expired promotion")
	}
	if !window.EffectivePrice.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("effective price = %s, want 80.00", window.EffectivePrice)
	}
	if window.DiscountPercent != 20 {
		t.Fatalf("discount percent = %d, want 20", window.DiscountPercent)
	}
}

func TestEvaluateNotYetStarted(t *testing.T) {
	evaluator := NewPromotionEvaluator(time.UTC)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	startsAt := now.Add(time.Hour)
	endsAt := now.Add(2 * time.Hour)

	window := evaluator.Evaluate(promoProduct(100, 80, &startsAt, &endsAt), now)

	if window.HasStarted {
		t.Fatal("expected promotion not started")
	}
	if window.IsActive {
		t.Fatal("expected inactive promotion")
	}
	if !window.EffectivePrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("effective price = %s, want 100.00", window.EffectivePrice)
	}
}

func TestEvaluatePromoPriceNotLower(t *testing.T) {
	evaluator := NewPromotionEvaluator(time.UTC)
	now := time.Now()

	window := evaluator.Evaluate(promoProduct(100, 100, nil, nil), now)
	if window.IsActive {
		t.Fatal("promo price equal to normal price must not activate")
	}

	window = evaluator.Evaluate(promoProduct(100, 0, nil, nil), now)
	if window.IsActive {
		t.Fatal("zero promo price must not activate")
	}
}

func TestEvaluateInactiveFlag(t *testing.T) {
	evaluator := NewPromotionEvaluator(time.UTC)
	product := promoProduct(100, 80, nil, nil)
	product.PromoActive = false

	window := evaluator.Evaluate(product, time.Now())
	if window.IsActive {
		t.Fatal("inactive flag must win over valid pricing")
	}
	if !window.EffectivePrice.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("effective price = %s, want 100.00", window.EffectivePrice)
	}
}

// 促销结束后 isActive 只能单向翻转为 false
func TestEvaluateMonotonicAcrossEnd(t *testing.T) {
	evaluator := NewPromotionEvaluator(time.UTC)
	endsAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	product := promoProduct(100, 80, nil, &endsAt)

	flips := 0
	prev := true
	for offset := -30; offset <= 30; offset++ {
		now := endsAt.Add(time.Duration(offset) * time.Minute)
		window := evaluator.Evaluate(product, now)
		if prev && !window.IsActive {
			flips++
		}
		if !prev && window.IsActive {
			t.Fatalf("isActive flipped back to true at offset %dm", offset)
		}
		prev = window.IsActive
	}
	if flips != 1 {
		t.Fatalf("isActive flipped %d times, want exactly 1", flips)
	}
}

func TestEvaluateNilProduct(t *testing.T) {
	evaluator := NewPromotionEvaluator(nil)
	window := evaluator.Evaluate(nil, time.Now())
	if window.IsActive || window.IsExpired {
		t.Fatal("nil product must evaluate to an empty window")
	}
}
