package repository

import (
	"errors"
	"strings"

	"github.com/feira-next/internal/models"

	"gorm.io/gorm"
)

// StoreRepository 商家数据访问接口
type StoreRepository interface {
	List(filter StoreListFilter) ([]models.Store, int64, error)
	GetByID(id uint) (*models.Store, error)
	ListByIDs(ids []uint) ([]models.Store, error)
	Create(store *models.Store) error
	Update(store *models.Store) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) StoreRepository
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建商家仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStoreRepository) WithTx(tx *gorm.DB) StoreRepository {
	if tx == nil {
		return r
	}
	return &GormStoreRepository{db: tx}
}

// List 商家列表
func (r *GormStoreRepository) List(filter StoreListFilter) ([]models.Store, int64, error) {
	var stores []models.Store
	query := r.db.Model(&models.Store{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("sort_order desc, id asc").Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// GetByID 根据ID获取商家，不存在返回 nil
func (r *GormStoreRepository) GetByID(id uint) (*models.Store, error) {
	var store models.Store
	err := r.db.First(&store, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// ListByIDs 批量获取商家
func (r *GormStoreRepository) ListByIDs(ids []uint) ([]models.Store, error) {
	if len(ids) == 0 {
		return []models.Store{}, nil
	}
	var stores []models.Store
	if err := r.db.Where("id IN ?", ids).Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Create 创建商家
func (r *GormStoreRepository) Create(store *models.Store) error {
	return r.db.Create(store).Error
}

// Update 更新商家
func (r *GormStoreRepository) Update(store *models.Store) error {
	return r.db.Save(store).Error
}

// Delete 删除商家
func (r *GormStoreRepository) Delete(id uint) error {
	return r.db.Delete(&models.Store{}, id).Error
}
