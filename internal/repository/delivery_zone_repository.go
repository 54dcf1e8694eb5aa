package repository

import (
	"errors"

	"github.com/feira-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryZoneRepository 配送区间数据访问接口
type DeliveryZoneRepository interface {
	GetByID(id uint) (*models.DeliveryZone, error)
	ListByStore(storeID uint) ([]models.DeliveryZone, error)
	ListActive() ([]models.DeliveryZone, error)
	Create(zone *models.DeliveryZone) error
	Update(zone *models.DeliveryZone) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) DeliveryZoneRepository
}

// GormDeliveryZoneRepository GORM 实现
type GormDeliveryZoneRepository struct {
	db *gorm.DB
}

// NewDeliveryZoneRepository 创建配送区间仓库
func NewDeliveryZoneRepository(db *gorm.DB) *GormDeliveryZoneRepository {
	return &GormDeliveryZoneRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryZoneRepository) WithTx(tx *gorm.DB) DeliveryZoneRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryZoneRepository{db: tx}
}

// GetByID 根据ID获取配送区间，不存在返回 nil
func (r *GormDeliveryZoneRepository) GetByID(id uint) (*models.DeliveryZone, error) {
	var zone models.DeliveryZone
	if err := r.db.First(&zone, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// ListByStore 获取店铺的全部配送区间
func (r *GormDeliveryZoneRepository) ListByStore(storeID uint) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	err := r.db.Where("store_id = ?", storeID).
		Order("id asc").
		Find(&zones).Error
	return zones, err
}

// ListActive 获取全部启用的配送区间
func (r *GormDeliveryZoneRepository) ListActive() ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	err := r.db.Where("is_active = ?", true).
		Order("store_id asc, id asc").
		Find(&zones).Error
	return zones, err
}

// Create 创建配送区间
func (r *GormDeliveryZoneRepository) Create(zone *models.DeliveryZone) error {
	return r.db.Create(zone).Error
}

// Update 更新配送区间
func (r *GormDeliveryZoneRepository) Update(zone *models.DeliveryZone) error {
	return r.db.Save(zone).Error
}

// Delete 删除配送区间
func (r *GormDeliveryZoneRepository) Delete(id uint) error {
	return r.db.Delete(&models.DeliveryZone{}, id).Error
}
