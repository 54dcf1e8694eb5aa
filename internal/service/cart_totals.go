package service

import (
	"github.com/feira-next/internal/models"

	"github.com/shopspring/decimal"
)

// CartTotals 购物车汇总金额
type CartTotals struct {
	Subtotal    models.Money `json:"subtotal"`
	Discount    models.Money `json:"discount"`
	Shipping    models.Money `json:"shipping"`
	Total       models.Money `json:"total"`
	TotalPoints int64        `json:"total_points"`
}

// ComputeTotals 汇总购物车明细
// 运费恒为 0，实际运费由结算阶段另行计算
// summaryPoints 非零时为准，否则按 floor(total) 乘以积分倍率估算
func ComputeTotals(items []CartItemDetail, couponDiscountPercent decimal.Decimal, summaryPoints int64, pointsMultiplier int64) CartTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal.Decimal)
	}

	discount := decimal.Zero
	if couponDiscountPercent.IsPositive() {
		discount = subtotal.Mul(couponDiscountPercent).Div(decimal.NewFromInt(100)).Round(2)
	}

	shipping := decimal.Zero
	total := subtotal.Add(shipping).Sub(discount)

	points := summaryPoints
	if points == 0 {
		if pointsMultiplier <= 0 {
			pointsMultiplier = 1
		}
		points = total.Floor().IntPart() * pointsMultiplier
	}

	return CartTotals{
		Subtotal:    models.NewMoneyFromDecimal(subtotal),
		Discount:    models.NewMoneyFromDecimal(discount),
		Shipping:    models.NewMoneyFromDecimal(shipping),
		Total:       models.NewMoneyFromDecimal(total),
		TotalPoints: points,
	}
}
