package public

import (
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/notice"

	"github.com/gin-gonic/gin"
)

// GetNotices 取出并清空当前用户的通知（促销过期下架、即将结束提醒等）
func (h *Handler) GetNotices(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	notices := h.NoticeCenter.Drain(uid)
	if notices == nil {
		notices = []notice.Notice{}
	}
	response.Success(c, gin.H{"notices": notices})
}

// GetNoticeCount 当前用户未读通知数量，拉取不消费
func (h *Handler) GetNoticeCount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{"count": h.NoticeCenter.Peek(uid)})
}
