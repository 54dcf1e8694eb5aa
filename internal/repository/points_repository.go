package repository

import (
	"github.com/feira-next/internal/models"

	"gorm.io/gorm"
)

// PointsRepository 积分流水数据访问接口
type PointsRepository interface {
	Create(tx *models.PointsTransaction) error
	SumByUser(userID uint) (int64, error)
	ListByUser(userID uint, page, pageSize int) ([]models.PointsTransaction, int64, error)
	ExistsForOrder(orderID uint) (bool, error)
	WithTx(tx *gorm.DB) PointsRepository
}

// GormPointsRepository GORM 实现
type GormPointsRepository struct {
	db *gorm.DB
}

// NewPointsRepository 创建积分仓库
func NewPointsRepository(db *gorm.DB) *GormPointsRepository {
	return &GormPointsRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPointsRepository) WithTx(tx *gorm.DB) PointsRepository {
	if tx == nil {
		return r
	}
	return &GormPointsRepository{db: tx}
}

// Create 写入一条积分流水
func (r *GormPointsRepository) Create(tx *models.PointsTransaction) error {
	return r.db.Create(tx).Error
}

// SumByUser 汇总用户积分余额
func (r *GormPointsRepository) SumByUser(userID uint) (int64, error) {
	var total struct {
		Total int64
	}
	err := r.db.Model(&models.PointsTransaction{}).
		Select("COALESCE(SUM(points), 0) as total").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total.Total, err
}

// ListByUser 获取用户积分流水
func (r *GormPointsRepository) ListByUser(userID uint, page, pageSize int) ([]models.PointsTransaction, int64, error) {
	var txs []models.PointsTransaction
	query := r.db.Model(&models.PointsTransaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)
	if err := query.Order("id desc").Find(&txs).Error; err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// ExistsForOrder 判断某订单是否已发放过积分
func (r *GormPointsRepository) ExistsForOrder(orderID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PointsTransaction{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}
