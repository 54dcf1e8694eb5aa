package repository

import (
	"errors"

	"github.com/feira-next/internal/models"

	"gorm.io/gorm"
)

// MaintenanceRepository 维护任务台账数据访问接口
type MaintenanceRepository interface {
	GetByName(name string) (*models.MaintenanceRecord, error)
	Create(record *models.MaintenanceRecord) error
	WithTx(tx *gorm.DB) MaintenanceRepository
}

// GormMaintenanceRepository GORM 实现
type GormMaintenanceRepository struct {
	db *gorm.DB
}

// NewMaintenanceRepository 创建维护台账仓库
func NewMaintenanceRepository(db *gorm.DB) *GormMaintenanceRepository {
	return &GormMaintenanceRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMaintenanceRepository) WithTx(tx *gorm.DB) MaintenanceRepository {
	if tx == nil {
		return r
	}
	return &GormMaintenanceRepository{db: tx}
}

// GetByName 根据名称获取记录，不存在返回 nil
func (r *GormMaintenanceRepository) GetByName(name string) (*models.MaintenanceRecord, error) {
	var record models.MaintenanceRecord
	if err := r.db.Where("name = ?", name).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Create 写入记录
func (r *GormMaintenanceRepository) Create(record *models.MaintenanceRecord) error {
	return r.db.Create(record).Error
}
