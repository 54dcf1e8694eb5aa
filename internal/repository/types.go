package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page            int
	PageSize        int
	StoreID         uint
	CategoryID      uint
	Search          string
	ExcludeStoreIDs []uint
	OnlyActive      bool
	WithStore       bool
	WithCategory    bool
}

// CouponListFilter 优惠券列表筛选
type CouponListFilter struct {
	Code     string
	IsActive *bool
	Page     int
	PageSize int
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	StoreID     uint
	Status      string
	OrderNo     string
	OnlyParents bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StoreListFilter 查询商家列表的过滤条件
type StoreListFilter struct {
	Page       int
	PageSize   int
	Search     string
	OnlyActive bool
}
