package service

import (
	"time"

	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"
)

// CartItemDetail 购物车项明细（响应用）
// Subtotal 一律按读取时刻的生效单价重算，入库的加购价只作参考
type CartItemDetail struct {
	ItemID        uint            `json:"item_id"`
	ProductID     uint            `json:"product_id"`
	Quantity      models.Quantity `json:"quantity"`
	UnitType      string          `json:"unit_type"`
	UnitPrice     models.Money    `json:"unit_price"`
	OriginalPrice models.Money    `json:"original_price"`
	CapturedPrice models.Money    `json:"captured_price"`
	Subtotal      models.Money    `json:"subtotal"`
	Points        int64           `json:"points"`
	Promotion     PromotionWindow `json:"promotion"`
	Product       *models.Product `json:"product"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	evaluator   *PromotionEvaluator
	onChanged   func(userID uint)
	now         func() time.Time
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, evaluator *PromotionEvaluator) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		evaluator:   evaluator,
		now:         time.Now,
	}
}

// SetOnChanged 注册购物车变更回调（看门狗即时校验入口）
func (s *CartService) SetOnChanged(fn func(userID uint)) {
	s.onChanged = fn
}

// SetClock 替换时钟（测试用）
func (s *CartService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ListByUser 获取用户当前购物车明细。
// 积分按 role 实时取值，身份升级后下一次读取即生效。
func (s *CartService) ListByUser(userID uint, role string) ([]CartItemDetail, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetActive(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return []CartItemDetail{}, nil
	}
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	return s.buildDetails(items, role), nil
}

// buildDetails 将购物车行映射为明细，缺商品的行跳过
func (s *CartService) buildDetails(items []models.CartItem, role string) []CartItemDetail {
	now := s.now()
	details := make([]CartItemDetail, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			continue
		}
		window := s.evaluator.Evaluate(product, now)
		subtotal := window.EffectivePrice.Mul(item.Quantity.Decimal)
		details = append(details, CartItemDetail{
			ItemID:        item.ID,
			ProductID:     item.ProductID,
			Quantity:      item.Quantity,
			UnitType:      product.UnitType,
			UnitPrice:     window.EffectivePrice,
			OriginalPrice: product.PriceAmount,
			CapturedPrice: item.UnitPriceAmount,
			Subtotal:      models.NewMoneyFromDecimal(subtotal),
			Points:        PointsForProduct(product, role),
			Promotion:     window,
			Product:       product,
		})
	}
	return details
}

// AddItem 加购：已有同商品行则累加数量，否则新建并记录当前生效单价
func (s *CartService) AddItem(userID, productID uint, quantity models.Quantity) error {
	if userID == 0 || productID == 0 || !quantity.IsPositive() {
		return ErrInvalidInput
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.IsActive {
		return ErrProductInactive
	}
	if quantity.LessThan(product.UnitStep.Decimal) {
		return ErrInvalidInput
	}

	now := s.now()
	cart, err := s.cartRepo.GetOrCreateActive(userID, now)
	if err != nil {
		return err
	}

	existing, err := s.cartRepo.GetItemByProduct(cart.ID, productID)
	if err != nil {
		return err
	}

	requested := quantity.Decimal
	if existing != nil {
		requested = existing.Quantity.Add(quantity.Decimal)
	}
	if requested.GreaterThan(product.Stock.Decimal) {
		return ErrInsufficientStock
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, models.NewQuantityFromDecimal(requested), now); err != nil {
			return err
		}
	} else {
		item := &models.CartItem{
			CartID:          cart.ID,
			UserID:          userID,
			ProductID:       productID,
			Quantity:        quantity,
			UnitPriceAmount: s.evaluator.EffectiveUnitPrice(product, now),
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return err
		}
	}

	s.finishMutation(userID, cart.ID, now)
	return nil
}

// UpdateQuantity 修改购物车行数量，重新核对库存
func (s *CartService) UpdateQuantity(userID, itemID uint, quantity models.Quantity) error {
	if userID == 0 || itemID == 0 || !quantity.IsPositive() {
		return ErrInvalidInput
	}
	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return err
	}
	if item == nil || item.UserID != userID {
		return ErrItemNotFound
	}
	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrItemNotFound
	}
	if quantity.LessThan(product.UnitStep.Decimal) {
		return ErrInvalidInput
	}
	if quantity.GreaterThan(product.Stock.Decimal) {
		return ErrInsufficientStock
	}

	now := s.now()
	if err := s.cartRepo.UpdateItemQuantity(itemID, quantity, now); err != nil {
		return err
	}
	s.finishMutation(userID, item.CartID, now)
	return nil
}

// RemoveItem 删除购物车行，行已不存在视为成功
func (s *CartService) RemoveItem(userID, itemID uint) error {
	if userID == 0 || itemID == 0 {
		return ErrInvalidInput
	}
	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	if item.UserID != userID {
		return ErrItemNotFound
	}
	if err := s.cartRepo.DeleteItem(itemID); err != nil {
		return err
	}
	s.finishMutation(userID, item.CartID, s.now())
	return nil
}

// ClearCart 清空购物车，无 active 购物车时为空操作
func (s *CartService) ClearCart(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	cart, err := s.cartRepo.GetActive(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return err
	}
	s.finishMutation(userID, cart.ID, s.now())
	return nil
}

// finishMutation 每次写操作收尾：续活跃时间并触发变更回调
func (s *CartService) finishMutation(userID, cartID uint, now time.Time) {
	if err := s.cartRepo.Touch(cartID, now); err != nil {
		// 触达失败会推迟闲置归档时钟，但不阻断本次写操作
		logger.Warnw("cart_touch_failed", "cart_id", cartID, "error", err)
	}
	if s.onChanged != nil {
		s.onChanged(userID)
	}
}
