package admin

import (
	"errors"
	"strings"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CouponRequest 创建/更新优惠券请求
type CouponRequest struct {
	Code         string  `json:"code" binding:"required"`
	Type         string  `json:"type" binding:"required"`
	Value        float64 `json:"value" binding:"required"`
	MinAmount    float64 `json:"min_amount"`
	MaxDiscount  float64 `json:"max_discount"`
	UsageLimit   int     `json:"usage_limit"`
	PerUserLimit int     `json:"per_user_limit"`
	StartsAt     string  `json:"starts_at"`
	EndsAt       string  `json:"ends_at"`
	IsActive     *bool   `json:"is_active"`
}

func (req *CouponRequest) toInput() (service.CouponInput, error) {
	startsAt, err := parseTimeNullable(req.StartsAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	endsAt, err := parseTimeNullable(req.EndsAt)
	if err != nil {
		return service.CouponInput{}, err
	}
	return service.CouponInput{
		Code:         req.Code,
		Type:         req.Type,
		Value:        decimal.NewFromFloat(req.Value),
		MinAmount:    decimal.NewFromFloat(req.MinAmount),
		MaxDiscount:  decimal.NewFromFloat(req.MaxDiscount),
		UsageLimit:   req.UsageLimit,
		PerUserLimit: req.PerUserLimit,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
		IsActive:     req.IsActive,
	}, nil
}

// GetAdminCoupons 后台优惠券列表
func (h *Handler) GetAdminCoupons(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	var isActive *bool
	switch strings.TrimSpace(c.Query("is_active")) {
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	}
	coupons, total, err := h.CouponService.ListAdmin(c.Query("code"), isActive, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"coupons": coupons}, response.NewPagination(page, pageSize, total))
}

// GetAdminCoupon 后台优惠券详情
func (h *Handler) GetAdminCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	coupon, err := h.CouponService.GetAdminByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.coupon_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, coupon)
}

// CreateCoupon 后台创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponService.CreateAdmin(input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, coupon)
}

// UpdateCoupon 后台更新优惠券
func (h *Handler) UpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	coupon, err := h.CouponService.UpdateAdmin(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.coupon_not_found", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, coupon)
}

// DeleteCoupon 后台删除优惠券
func (h *Handler) DeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.CouponService.DeleteAdmin(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.coupon_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
