package service

import (
	"strings"
	"time"

	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CouponService 优惠券服务
type CouponService struct {
	repo repository.CouponRepository
	now  func() time.Time
}

// NewCouponService 创建优惠券服务
func NewCouponService(repo repository.CouponRepository) *CouponService {
	return &CouponService{repo: repo, now: time.Now}
}

// SetClock 替换时钟（测试用）
func (s *CouponService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Validate 校验优惠码对指定用户和小计金额是否可用
func (s *CouponService) Validate(code string, userID uint, subtotal models.Money) (*models.Coupon, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if code == "" {
		return nil, ErrCouponInvalid
	}
	coupon, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if coupon == nil || !coupon.IsActive {
		return nil, ErrCouponInvalid
	}

	now := s.now()
	if coupon.StartsAt != nil && coupon.StartsAt.After(now) {
		return nil, ErrCouponInvalid
	}
	if coupon.EndsAt != nil && coupon.EndsAt.Before(now) {
		return nil, ErrCouponExpired
	}
	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return nil, ErrCouponExhausted
	}
	if coupon.PerUserLimit > 0 {
		used, err := s.repo.CountUsageByUser(coupon.ID, userID)
		if err != nil {
			return nil, err
		}
		if used >= int64(coupon.PerUserLimit) {
			return nil, ErrCouponExhausted
		}
	}
	if coupon.MinAmount.IsPositive() && subtotal.LessThan(coupon.MinAmount.Decimal) {
		return nil, ErrCouponMinAmount
	}
	return coupon, nil
}

// Discount 计算优惠券在小计金额上的实际抵扣，整车级别应用
func (s *CouponService) Discount(coupon *models.Coupon, subtotal models.Money) models.Money {
	if coupon == nil {
		return models.NewMoneyFromInt(0)
	}
	var discount decimal.Decimal
	switch coupon.Type {
	case constants.CouponTypePercent:
		discount = subtotal.Mul(coupon.Value.Decimal).Div(decimal.NewFromInt(100)).Round(2)
	case constants.CouponTypeFixed:
		discount = coupon.Value.Decimal
	default:
		return models.NewMoneyFromInt(0)
	}
	if coupon.MaxDiscount.IsPositive() && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
		discount = coupon.MaxDiscount.Decimal
	}
	if discount.GreaterThan(subtotal.Decimal) {
		discount = subtotal.Decimal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return models.NewMoneyFromDecimal(discount)
}

// DiscountPercentOf 将优惠券折算成小计的折扣百分比（汇总展示用）
func (s *CouponService) DiscountPercentOf(coupon *models.Coupon, subtotal models.Money) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}
	discount := s.Discount(coupon, subtotal)
	return discount.Div(subtotal.Decimal).Mul(decimal.NewFromInt(100))
}

// CouponInput 后台创建/更新优惠券输入
type CouponInput struct {
	Code         string
	Type         string
	Value        decimal.Decimal
	MinAmount    decimal.Decimal
	MaxDiscount  decimal.Decimal
	UsageLimit   int
	PerUserLimit int
	StartsAt     *time.Time
	EndsAt       *time.Time
	IsActive     *bool
}

// ListAdmin 后台优惠券列表
func (s *CouponService) ListAdmin(code string, isActive *bool, page, pageSize int) ([]models.Coupon, int64, error) {
	return s.repo.List(repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(strings.ToUpper(code)),
		IsActive: isActive,
	})
}

// GetAdminByID 后台优惠券详情
func (s *CouponService) GetAdminByID(id uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrNotFound
	}
	return coupon, nil
}

// CreateAdmin 后台创建优惠券
func (s *CouponService) CreateAdmin(input CouponInput) (*models.Coupon, error) {
	coupon := &models.Coupon{IsActive: true}
	if err := applyCouponInput(coupon, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// UpdateAdmin 后台更新优惠券
func (s *CouponService) UpdateAdmin(id uint, input CouponInput) (*models.Coupon, error) {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, ErrNotFound
	}
	if err := applyCouponInput(coupon, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// DeleteAdmin 后台删除优惠券
func (s *CouponService) DeleteAdmin(id uint) error {
	coupon, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if coupon == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id)
}

func applyCouponInput(coupon *models.Coupon, input CouponInput) error {
	code := strings.TrimSpace(strings.ToUpper(input.Code))
	if code == "" {
		return ErrInvalidInput
	}
	if input.Type != constants.CouponTypeFixed && input.Type != constants.CouponTypePercent {
		return ErrInvalidInput
	}
	if !input.Value.IsPositive() {
		return ErrInvalidInput
	}
	if input.Type == constants.CouponTypePercent && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidInput
	}
	coupon.Code = code
	coupon.Type = input.Type
	coupon.Value = models.NewMoneyFromDecimal(input.Value)
	coupon.MinAmount = models.NewMoneyFromDecimal(input.MinAmount)
	coupon.MaxDiscount = models.NewMoneyFromDecimal(input.MaxDiscount)
	coupon.UsageLimit = input.UsageLimit
	coupon.PerUserLimit = input.PerUserLimit
	coupon.StartsAt = input.StartsAt
	coupon.EndsAt = input.EndsAt
	if input.IsActive != nil {
		coupon.IsActive = *input.IsActive
	}
	return nil
}

// Redeem 在下单事务内登记一次使用
func (s *CouponService) Redeem(tx *gorm.DB, coupon *models.Coupon, userID, orderID uint) error {
	if coupon == nil {
		return nil
	}
	repo := s.repo.WithTx(tx)
	if err := repo.IncrementUsedCount(coupon.ID, 1); err != nil {
		return err
	}
	return repo.RecordUsage(&models.CouponUsage{
		CouponID: coupon.ID,
		UserID:   userID,
		OrderID:  orderID,
	})
}
