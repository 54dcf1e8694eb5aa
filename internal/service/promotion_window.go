package service

import (
	"time"

	"github.com/feira-next/internal/models"

	"github.com/shopspring/decimal"
)

// PromotionWindow 商品促销时间窗的即时判定结果
// 依赖墙钟，禁止持久化，每次读取都要重新计算
type PromotionWindow struct {
	IsActive        bool         `json:"is_active"`
	IsExpired       bool         `json:"is_expired"`
	HasStarted      bool         `json:"has_started"`
	EffectivePrice  models.Money `json:"effective_price"`
	DiscountPercent int64        `json:"discount_percent"`
}

// PromotionEvaluator 促销窗口求值器，所有时间比较统一换算到一个时区
type PromotionEvaluator struct {
	loc *time.Location
}

// NewPromotionEvaluator 创建求值器
func NewPromotionEvaluator(loc *time.Location) *PromotionEvaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &PromotionEvaluator{loc: loc}
}

// Evaluate 计算商品在 now 时刻的促销窗口，无副作用，幂等
func (e *PromotionEvaluator) Evaluate(product *models.Product, now time.Time) PromotionWindow {
	window := PromotionWindow{HasStarted: true}
	if product == nil {
		return window
	}
	window.EffectivePrice = product.PriceAmount

	moment := now.In(e.loc)
	if product.PromoStartsAt != nil {
		window.HasStarted = !product.PromoStartsAt.In(e.loc).After(moment)
	}
	if product.PromoEndsAt != nil {
		window.IsExpired = product.PromoEndsAt.In(e.loc).Before(moment)
	}

	normal := product.PriceAmount.Decimal
	promo := product.PromoPriceAmount.Decimal
	validPromoPrice := promo.IsPositive() && promo.LessThan(normal)

	window.IsActive = product.PromoActive && validPromoPrice && !window.IsExpired && window.HasStarted
	if window.IsActive {
		window.EffectivePrice = product.PromoPriceAmount
		window.DiscountPercent = discountPercent(normal, promo)
	}
	return window
}

// EffectiveUnitPrice 当前应付单价
func (e *PromotionEvaluator) EffectiveUnitPrice(product *models.Product, now time.Time) models.Money {
	return e.Evaluate(product, now).EffectivePrice
}

func discountPercent(normal, promo decimal.Decimal) int64 {
	if !normal.IsPositive() {
		return 0
	}
	percent := normal.Sub(promo).
		Div(normal).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return percent.IntPart()
}
