package admin

import (
	"errors"
	"strings"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/repository"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 订单状态更新请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminListOrders 后台订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      handlershared.ParseUintQuery(c, "user_id"),
		StoreID:     handlershared.ParseUintQuery(c, "store_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		OnlyParents: c.DefaultQuery("only_parents", "true") != "false",
	}
	orders, total, err := h.OrderService.ListAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"orders": orders}, response.NewPagination(page, pageSize, total))
}

// AdminGetOrder 后台订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetAdminByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, order)
}

// AdminUpdateOrderStatus 后台更新订单状态
func (h *Handler) AdminUpdateOrderStatus(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.OrderService.UpdateStatusAdmin(id, strings.TrimSpace(req.Status)); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	requestLog(c).Infow("admin_order_status_updated",
		"admin_id", adminID,
		"order_id", id,
		"status", req.Status,
	)
	response.Success(c, gin.H{"updated": true})
}
