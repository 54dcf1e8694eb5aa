package public

import (
	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPointsBalance 积分余额
func (h *Handler) GetPointsBalance(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	balance, err := h.LoyaltyService.Balance(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"balance": balance})
}

// GetPointsHistory 积分流水
func (h *Handler) GetPointsHistory(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	transactions, total, err := h.LoyaltyService.History(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"transactions": transactions}, response.NewPagination(page, pageSize, total))
}
