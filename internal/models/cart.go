package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart 购物车聚合。每个用户同一时刻至多一个 active 购物车：
// active_key 在 active 状态下等于 user_id 并带唯一索引，归档后置 NULL
// （唯一索引对 NULL 不生效），从数据库层面消除并发「查无则建」的竞态。
type Cart struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                           // 主键
	UserID         uint           `gorm:"not null;index" json:"user_id"`                                  // 用户ID
	Status         string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"` // 状态（active/archived）
	ActiveKey      *uint          `gorm:"uniqueIndex" json:"-"`                                           // active 状态唯一键（= user_id）
	LastActivityAt time.Time      `gorm:"index" json:"last_activity_at"`                                  // 最后活动时间
	ArchivedAt     *time.Time     `json:"archived_at"`                                                    // 归档时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // 购物车项
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}

// CartItem 购物车项。物理删除：软删除残留会占用
// (cart_id, product_id) 唯一索引，导致同商品无法再次加购。
type CartItem struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                              // 主键
	CartID          uint      `gorm:"not null;uniqueIndex:idx_cart_item_cart_product" json:"cart_id"`    // 购物车ID
	UserID          uint      `gorm:"not null;index" json:"user_id"`                                     // 用户ID（冗余，便于按用户查询）
	ProductID       uint      `gorm:"not null;uniqueIndex:idx_cart_item_cart_product" json:"product_id"` // 商品ID
	Quantity        Quantity  `gorm:"type:decimal(20,3);not null" json:"quantity"`                       // 数量
	UnitPriceAmount Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price_amount"`    // 加购时生效单价（仅作参考，读取时以当前生效价重算）
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                           // 创建时间
	UpdatedAt       time.Time `gorm:"index" json:"updated_at"`                                           // 更新时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
