package service

import (
	"testing"

	"github.com/feira-next/internal/models"

	"github.com/shopspring/decimal"
)

func detailWithSubtotal(amount int64) CartItemDetail {
	return CartItemDetail{Subtotal: models.NewMoneyFromInt(amount)}
}

func TestComputeTotalsWithCoupon(t *testing.T) {
	items := []CartItemDetail{detailWithSubtotal(50), detailWithSubtotal(30)}
	totals := ComputeTotals(items, decimal.NewFromInt(10), 0, 2)

	if !totals.Subtotal.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("subtotal = %s, want 80.00", totals.Subtotal)
	}
	if !totals.Discount.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("discount = %s, want 8.00", totals.Discount)
	}
	if !totals.Shipping.Equal(decimal.Zero) {
		t.Fatalf("shipping = %s, want 0.00", totals.Shipping)
	}
	if !totals.Total.Equal(decimal.NewFromInt(72)) {
		t.Fatalf("total = %s, want 72.00", totals.Total)
	}
}

// 无券无运费时 total 必须等于各行小计之和
func TestComputeTotalsIdentity(t *testing.T) {
	items := []CartItemDetail{
		detailWithSubtotal(19),
		detailWithSubtotal(7),
		detailWithSubtotal(120),
	}
	totals := ComputeTotals(items, decimal.Zero, 0, 2)
	if !totals.Total.Equal(decimal.NewFromInt(146)) {
		t.Fatalf("total = %s, want 146.00", totals.Total)
	}
	if !totals.Total.Equal(totals.Subtotal.Decimal) {
		t.Fatalf("total %s != subtotal %s", totals.Total, totals.Subtotal)
	}
}

func TestComputeTotalsPointsFallback(t *testing.T) {
	items := []CartItemDetail{detailWithSubtotal(50)}

	totals := ComputeTotals(items, decimal.Zero, 0, 2)
	if totals.TotalPoints != 100 {
		t.Fatalf("points = %d, want floor(50)*2 = 100", totals.TotalPoints)
	}

	totals = ComputeTotals(items, decimal.Zero, 37, 2)
	if totals.TotalPoints != 37 {
		t.Fatalf("points = %d, want authoritative 37", totals.TotalPoints)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil, decimal.NewFromInt(10), 0, 2)
	if !totals.Total.Equal(decimal.Zero) {
		t.Fatalf("total = %s, want 0.00", totals.Total)
	}
	if totals.TotalPoints != 0 {
		t.Fatalf("points = %d, want 0", totals.TotalPoints)
	}
}
