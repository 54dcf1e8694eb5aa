package models

import (
	"time"

	"gorm.io/gorm"
)

// Store 商家（多商家市场中的卖家）
type Store struct {
	ID        uint           `gorm:"primarykey" json:"id"`              // 主键
	Slug      string         `gorm:"uniqueIndex;not null" json:"slug"`  // 唯一标识
	Name      string         `gorm:"not null" json:"name"`              // 商家名称
	CNPJ      string         `gorm:"type:varchar(20)" json:"cnpj"`      // 商家税号
	Logo      string         `gorm:"type:varchar(500)" json:"logo"`     // 商家 Logo 路径
	IsActive  bool           `gorm:"not null;index" json:"is_active"`   // 是否营业
	SortOrder int            `gorm:"default:0;index" json:"sort_order"` // 排序权重
	CreatedAt time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                        // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (Store) TableName() string {
	return "stores"
}
