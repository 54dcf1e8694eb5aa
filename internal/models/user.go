package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                     // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`                        // 邮箱
	PasswordHash string         `gorm:"not null" json:"-"`                                        // 密码哈希
	Name         string         `gorm:"not null" json:"name"`                                     // 姓名
	Role         string         `gorm:"type:varchar(20);not null;default:'consumer'" json:"role"` // 身份（consumer/professional）
	CEP          string         `gorm:"type:varchar(8)" json:"cep"`                               // 默认收货 CEP
	IsActive     bool           `gorm:"not null" json:"is_active"`                                // 是否启用
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                  // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                               // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                           // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// PointsTransaction 积分流水（余额 = 流水之和，由订单落库后异步授予）
type PointsTransaction struct {
	ID        uint      `gorm:"primarykey" json:"id"`                  // 主键
	UserID    uint      `gorm:"not null;index" json:"user_id"`         // 用户ID
	OrderID   *uint     `gorm:"index" json:"order_id"`                 // 关联订单（调整类流水为空）
	Type      string    `gorm:"type:varchar(20);not null" json:"type"` // 类型（order_award/adjustment）
	Points    int64     `gorm:"not null" json:"points"`                // 积分变动（可为负）
	Note      string    `gorm:"type:varchar(200)" json:"note"`         // 备注
	CreatedAt time.Time `gorm:"index" json:"created_at"`               // 创建时间
}

// TableName 指定表名
func (PointsTransaction) TableName() string {
	return "points_transactions"
}
