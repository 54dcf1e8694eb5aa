package service

import (
	"fmt"

	"github.com/feira-next/internal/logger"
)

// StoreGroup 按店铺分组后的购物车明细
type StoreGroup struct {
	StoreID   uint             `json:"store_id"`
	StoreName string           `json:"store_name"`
	Items     []CartItemDetail `json:"items"`
}

// GroupByStore 按商品归属店铺分组。
// 缺商品或缺店铺的明细丢弃并记日志；组内顺序保持输入顺序，
// 组的顺序为各店铺首次出现的顺序。
func GroupByStore(items []CartItemDetail) []StoreGroup {
	groups := make([]StoreGroup, 0)
	index := make(map[uint]int)

	for _, item := range items {
		if item.Product == nil {
			logger.Warnw("cart_item_missing_product", "item_id", item.ItemID)
			continue
		}
		storeID := item.Product.StoreID
		if storeID == 0 {
			logger.Warnw("cart_item_missing_store",
				"item_id", item.ItemID,
				"product_id", item.ProductID,
			)
			continue
		}

		pos, ok := index[storeID]
		if !ok {
			name := fmt.Sprintf("Loja %d", storeID)
			if item.Product.Store != nil && item.Product.Store.Name != "" {
				name = item.Product.Store.Name
			}
			groups = append(groups, StoreGroup{StoreID: storeID, StoreName: name})
			pos = len(groups) - 1
			index[storeID] = pos
		} else if groups[pos].StoreName == fmt.Sprintf("Loja %d", storeID) &&
			item.Product.Store != nil && item.Product.Store.Name != "" {
			groups[pos].StoreName = item.Product.Store.Name
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups
}
