package notice

import (
	"sync"
	"time"

	"github.com/feira-next/internal/logger"
)

// 单用户收件箱上限，超出后丢弃最旧的通知
const inboxCap = 100

// Notice 面向用户的一条通知
type Notice struct {
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier 通知投递接口
type Notifier interface {
	Notify(userID uint, severity, message string)
}

// LogNotifier 将通知写入结构化日志
type LogNotifier struct{}

// Notify 记录一条通知日志
func (LogNotifier) Notify(userID uint, severity, message string) {
	logger.Infow("user_notice",
		"user_id", userID,
		"severity", severity,
		"message", message,
	)
}

// Center 内存收件箱，通知按用户暂存，由前端拉取后清空
type Center struct {
	mu      sync.Mutex
	inboxes map[uint][]Notice
}

// NewCenter 创建通知中心
func NewCenter() *Center {
	return &Center{inboxes: make(map[uint][]Notice)}
}

// Notify 向用户收件箱追加通知
func (c *Center) Notify(userID uint, severity, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	inbox := append(c.inboxes[userID], Notice{
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(inbox) > inboxCap {
		inbox = inbox[len(inbox)-inboxCap:]
	}
	c.inboxes[userID] = inbox
}

// Drain 取出并清空用户的全部通知
func (c *Center) Drain(userID uint) []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	inbox := c.inboxes[userID]
	delete(c.inboxes, userID)
	return inbox
}

// Peek 返回用户当前通知数量
func (c *Center) Peek(userID uint) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inboxes[userID])
}

// Multi 将同一通知扇出给多个投递端
type Multi []Notifier

// Notify 依次投递
func (m Multi) Notify(userID uint, severity, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(userID, severity, message)
		}
	}
}
