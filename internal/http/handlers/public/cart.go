package public

import (
	"strings"

	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AddCartItemRequest 加购请求
type AddCartItemRequest struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  models.Quantity `json:"quantity" binding:"required"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity models.Quantity `json:"quantity" binding:"required"`
}

// GetCart 获取购物车（按店铺分组，含汇总金额）
// 可选 coupon 参数用于预览优惠后的合计。
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	details, err := h.CartService.ListByUser(uid, c.GetString("user_role"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}

	discountPercent := decimal.Zero
	couponCode := strings.TrimSpace(c.Query("coupon"))
	var coupon *models.Coupon
	if couponCode != "" && len(details) > 0 {
		subtotal := decimal.Zero
		for _, d := range details {
			subtotal = subtotal.Add(d.Subtotal.Decimal)
		}
		coupon, err = h.CouponService.Validate(couponCode, uid, models.NewMoneyFromDecimal(subtotal))
		if err != nil {
			respondCouponError(c, err)
			return
		}
		discountPercent = h.CouponService.DiscountPercentOf(coupon, models.NewMoneyFromDecimal(subtotal))
	}

	summaryPoints := int64(0)
	for _, d := range details {
		summaryPoints += d.Points
	}

	totals := service.ComputeTotals(details, discountPercent, summaryPoints, h.Config.Loyalty.PointsMultiplier)
	groups := service.GroupByStore(details)

	data := gin.H{
		"groups": groups,
		"totals": totals,
	}
	if coupon != nil {
		data["coupon"] = gin.H{
			"code":  coupon.Code,
			"type":  coupon.Type,
			"value": coupon.Value,
		}
	}
	response.Success(c, data)
}

// AddCartItem 添加购物车项
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CartService.AddItem(uid, req.ProductID, req.Quantity); err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"added": true})
}

// UpdateCartItem 修改购物车项数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.CartService.UpdateQuantity(uid, itemID, req.Quantity); err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(uid, itemID); err != nil {
		respondCartMutationError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.ClearCart(uid); err != nil {
		respondError(c, response.CodeInternal, "error.cart_update_failed", err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}
