package service

import (
	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"
)

// LoyaltyService 积分服务，积分以流水记账，余额为流水之和
type LoyaltyService struct {
	pointsRepo repository.PointsRepository
	orderRepo  repository.OrderRepository
}

// NewLoyaltyService 创建积分服务
func NewLoyaltyService(pointsRepo repository.PointsRepository, orderRepo repository.OrderRepository) *LoyaltyService {
	return &LoyaltyService{pointsRepo: pointsRepo, orderRepo: orderRepo}
}

// Balance 用户积分余额
func (s *LoyaltyService) Balance(userID uint) (int64, error) {
	if userID == 0 {
		return 0, ErrInvalidInput
	}
	return s.pointsRepo.SumByUser(userID)
}

// History 用户积分流水
func (s *LoyaltyService) History(userID uint, page, pageSize int) ([]models.PointsTransaction, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.pointsRepo.ListByUser(userID, page, pageSize)
}

// PointsForProduct 按用户身份取商品积分值
func PointsForProduct(product *models.Product, role string) int64 {
	if product == nil {
		return 0
	}
	if role == constants.UserRoleProfessional {
		return product.PointsProfessional
	}
	return product.PointsConsumer
}

// AwardForOrder 为订单发放积分，按订单去重，可安全重试
func (s *LoyaltyService) AwardForOrder(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrNotFound
	}

	exists, err := s.pointsRepo.ExistsForOrder(orderID)
	if err != nil {
		return err
	}
	if exists {
		logger.Infow("order_points_already_awarded", "order_id", orderID)
		return nil
	}

	// 行积分在下单时已按用户身份定格，这里只做汇总
	var total int64
	items := order.Items
	for _, child := range order.Children {
		items = append(items, child.Items...)
	}
	for _, item := range items {
		total += item.PointsEarned
	}
	if total == 0 {
		return nil
	}

	tx := &models.PointsTransaction{
		UserID:  order.UserID,
		OrderID: &order.ID,
		Type:    constants.PointsTxTypeOrderAward,
		Points:  total,
	}
	if err := s.pointsRepo.Create(tx); err != nil {
		return err
	}
	if err := s.orderRepo.MarkPointsAwarded(order.ID, total); err != nil {
		return err
	}
	logger.Infow("order_points_awarded",
		"order_id", order.ID,
		"user_id", order.UserID,
		"points", total,
	)
	return nil
}

// Adjust 人工调整积分（后台操作）
func (s *LoyaltyService) Adjust(userID uint, points int64, note string) error {
	if userID == 0 || points == 0 {
		return ErrInvalidInput
	}
	return s.pointsRepo.Create(&models.PointsTransaction{
		UserID: userID,
		Type:   constants.PointsTxTypeAdjustment,
		Points: points,
		Note:   note,
	})
}
