package repository

import (
	"errors"
	"time"

	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetOrCreateActive(userID uint, now time.Time) (*models.Cart, error)
	GetActive(userID uint) (*models.Cart, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	ListActiveWithItems() ([]models.Cart, error)
	GetItem(itemID uint) (*models.CartItem, error)
	GetItemByProduct(cartID, productID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity models.Quantity, now time.Time) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) error
	Touch(cartID uint, now time.Time) error
	ListIdleActive(before time.Time) ([]models.Cart, error)
	Archive(cartID uint, now time.Time) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetOrCreateActive 获取或创建用户的 active 购物车。
// active_key 上的唯一索引保证并发「查无则建」只会成功一次，
// 冲突方重读已有记录，不会出现同一用户两个 active 购物车。
func (r *GormCartRepository) GetOrCreateActive(userID uint, now time.Time) (*models.Cart, error) {
	cart, err := r.GetActive(userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	key := userID
	created := models.Cart{
		UserID:         userID,
		Status:         constants.CartStatusActive,
		ActiveKey:      &key,
		LastActivityAt: now,
	}
	if err := r.db.Create(&created).Error; err != nil {
		// 唯一索引冲突：并发创建已抢先成功，重读即可
		existing, readErr := r.GetActive(userID)
		if readErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return &created, nil
}

// GetActive 获取用户的 active 购物车，不存在返回 nil
func (r *GormCartRepository) GetActive(userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Where("active_key = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ListItems 获取购物车全部条目（含商品），按创建顺序返回
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Preload("Product.Store").
		Where("cart_id = ?", cartID).Order("created_at asc, id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListActiveWithItems 获取全部 active 购物车及其条目（促销巡检批量通道）
func (r *GormCartRepository) ListActiveWithItems() ([]models.Cart, error) {
	var carts []models.Cart
	if err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Preload("Items.Product").
		Where("status = ?", constants.CartStatusActive).
		Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// GetItem 根据ID获取购物车项，不存在返回 nil
func (r *GormCartRepository) GetItem(itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemByProduct 获取购物车内指定商品的条目，不存在返回 nil
func (r *GormCartRepository) GetItemByProduct(cartID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity models.Quantity, now time.Time) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": now,
	}).Error
}

// DeleteItem 删除购物车项。条目已不存在视为成功（幂等）。
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// ClearItems 批量清空购物车条目
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// Touch 刷新购物车最后活动时间
func (r *GormCartRepository) Touch(cartID uint, now time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"last_activity_at": now,
		"updated_at":       now,
	}).Error
}

// ListIdleActive 获取最后活动时间早于阈值的 active 购物车
func (r *GormCartRepository) ListIdleActive(before time.Time) ([]models.Cart, error) {
	var carts []models.Cart
	if err := r.db.Where("status = ? AND last_activity_at < ?", constants.CartStatusActive, before).
		Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// Archive 归档购物车（终态，用户侧不可逆）
func (r *GormCartRepository) Archive(cartID uint, now time.Time) error {
	return r.db.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"status":      constants.CartStatusArchived,
		"active_key":  nil,
		"archived_at": now,
		"updated_at":  now,
	}).Error
}
