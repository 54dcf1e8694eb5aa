package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表。多商家结算时按商家拆单：父单承载整车金额与优惠，
// 每个商家一个子单（ParentID 非空，StoreID 非空）。
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                            // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                            // 订单号
	UserID         uint           `gorm:"not null;index" json:"user_id"`                                   // 用户ID
	ParentID       *uint          `gorm:"index" json:"parent_id"`                                          // 父订单ID（子单非空）
	StoreID        *uint          `gorm:"index" json:"store_id"`                                           // 商家ID（子单非空）
	Status         string         `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"` // 状态
	SubtotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"`    // 小计
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`    // 优惠金额
	ShippingAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping_amount"`    // 运费（下单后由物流报价回填）
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`       // 应付合计
	PointsAwarded  int64          `gorm:"not null;default:0" json:"points_awarded"`                        // 已授予积分
	CouponID       *uint          `gorm:"index" json:"coupon_id"`                                          // 使用的优惠券（仅父单）
	DeliveryCEP    string         `gorm:"type:varchar(8)" json:"delivery_cep"`                             // 收货 CEP
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	// 关联
	Children []Order     `gorm:"foreignKey:ParentID" json:"children,omitempty"` // 子订单
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`     // 订单项
	Store    *Store      `gorm:"foreignKey:StoreID" json:"store,omitempty"`     // 商家信息
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项（下单时价格快照）
type OrderItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                 // 主键
	OrderID         uint           `gorm:"not null;index" json:"order_id"`                       // 订单ID
	ProductID       uint           `gorm:"not null;index" json:"product_id"`                     // 商品ID
	StoreID         uint           `gorm:"not null;index" json:"store_id"`                       // 商家ID
	ProductName     string         `gorm:"not null" json:"product_name"`                         // 商品名称快照
	Quantity        Quantity       `gorm:"type:decimal(20,3);not null" json:"quantity"`          // 数量
	UnitPriceAmount Money          `gorm:"type:decimal(20,2);not null" json:"unit_price_amount"` // 成交单价
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null" json:"total_amount"`      // 行合计
	PointsEarned    int64          `gorm:"not null;default:0" json:"points_earned"`              // 行积分
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                              // 创建时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                       // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
