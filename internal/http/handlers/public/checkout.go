package public

import (
	"strings"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	CouponCode  string `json:"coupon_code"`
	DeliveryCEP string `json:"delivery_cep"`
}

// Checkout 结算当前购物车，按店铺拆分子订单
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.Checkout(service.CheckoutInput{
		UserID:      uid,
		CouponCode:  strings.TrimSpace(req.CouponCode),
		DeliveryCEP: strings.TrimSpace(req.DeliveryCEP),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 用户订单列表（仅父订单）
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.NewPagination(page, pageSize, total))
}

// GetOrder 用户订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(uid, orderID)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
		}, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}

// ValidateCoupon 校验优惠券对当前购物车是否可用
func (h *Handler) ValidateCoupon(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	code := strings.TrimSpace(c.Query("code"))
	if code == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	details, err := h.CartService.ListByUser(uid, c.GetString("user_role"))
	if err != nil {
		respondError(c, response.CodeInternal, "error.cart_fetch_failed", err)
		return
	}
	totals := service.ComputeTotals(details, decimal.Zero, 0, h.Config.Loyalty.PointsMultiplier)

	coupon, err := h.CouponService.Validate(code, uid, totals.Subtotal)
	if err != nil {
		respondCouponError(c, err)
		return
	}
	discount := h.CouponService.Discount(coupon, totals.Subtotal)
	response.Success(c, gin.H{
		"code":     coupon.Code,
		"type":     coupon.Type,
		"value":    coupon.Value,
		"discount": discount,
	})
}
