package models

import (
	"time"

	"gorm.io/gorm"
)

// DeliveryZone 商家配送区间。CEP 存储为去掉分隔符的 8 位数字串，
// 区间判断按数值比较（cep_start <= cep <= cep_end）。
type DeliveryZone struct {
	ID        uint           `gorm:"primarykey" json:"id"`                      // 主键
	StoreID   uint           `gorm:"not null;index" json:"store_id"`            // 商家ID
	Label     string         `gorm:"type:varchar(100)" json:"label"`            // 区间名称（如城市/片区）
	CEPStart  string         `gorm:"type:varchar(8);not null" json:"cep_start"` // 区间起始 CEP
	CEPEnd    string         `gorm:"type:varchar(8);not null" json:"cep_end"`   // 区间结束 CEP
	IsActive  bool           `gorm:"not null;index" json:"is_active"`           // 是否启用
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (DeliveryZone) TableName() string {
	return "delivery_zones"
}
