package admin

import (
	"errors"

	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdjustPointsRequest 积分调整请求
type AdjustPointsRequest struct {
	Points int64  `json:"points" binding:"required"`
	Note   string `json:"note"`
}

// AdjustUserPoints 后台调整用户积分（正为加，负为扣）
func (h *Handler) AdjustUserPoints(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.LoyaltyService.Adjust(userID, req.Points, req.Note); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	requestLog(c).Infow("admin_points_adjusted",
		"admin_id", adminID,
		"user_id", userID,
		"points", req.Points,
	)
	response.Success(c, gin.H{"adjusted": true})
}

// GetUserPoints 后台查看用户积分余额与流水
func (h *Handler) GetUserPoints(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	balance, err := h.LoyaltyService.Balance(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	transactions, _, err := h.LoyaltyService.History(userID, 1, 50)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{
		"balance":      balance,
		"transactions": transactions,
	})
}
