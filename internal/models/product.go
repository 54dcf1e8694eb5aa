package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                                            // 主键
	StoreID            uint           `gorm:"not null;index" json:"store_id"`                                  // 所属商家ID
	CategoryID         uint           `gorm:"not null;index" json:"category_id"`                               // 分类ID
	Slug               string         `gorm:"uniqueIndex;not null" json:"slug"`                                // 唯一标识
	Name               string         `gorm:"not null" json:"name"`                                            // 商品名称
	Description        string         `gorm:"type:text" json:"description"`                                    // 商品描述
	SpecsJSON          JSON           `gorm:"type:json" json:"specs"`                                          // 规格参数
	Images             StringArray    `gorm:"type:json" json:"images"`                                         // 图片数组
	Tags               StringArray    `gorm:"type:json" json:"tags"`                                           // 标签数组
	PriceAmount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"`       // 正常售价
	PromoPriceAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"promo_price_amount"` // 促销价
	PromoActive        bool           `gorm:"not null;default:false;index" json:"promo_active"`                // 促销开关
	PromoStartsAt      *time.Time     `gorm:"index" json:"promo_starts_at"`                                    // 促销生效时间
	PromoEndsAt        *time.Time     `gorm:"index" json:"promo_ends_at"`                                      // 促销失效时间
	Stock              Quantity       `gorm:"type:decimal(20,3);not null;default:0" json:"stock"`              // 当前库存
	UnitType           string         `gorm:"type:varchar(10);not null;default:'unit'" json:"unit_type"`       // 计量单位（unit/kg/m2）
	UnitStep           Quantity       `gorm:"type:decimal(20,3);not null;default:1" json:"unit_step"`          // 最小售卖步长
	PointsConsumer     int64          `gorm:"not null;default:0" json:"points_consumer"`                       // 普通用户购买积分
	PointsProfessional int64          `gorm:"not null;default:0" json:"points_professional"`                   // 专业用户购买积分
	IsActive           bool           `gorm:"not null;index" json:"is_active"`                                 // 是否上架
	SortOrder          int            `gorm:"default:0;index" json:"sort_order"`                               // 排序权重
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	// 关联
	Store    *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`       // 商家信息
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
