package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/feira-next/internal/constants"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PointsEnqueuer 下单成功后异步发积分的队列入口
type PointsEnqueuer interface {
	EnqueuePointsAward(orderID uint) error
}

// OrderService 订单服务。多商家购物车结算拆单：
// 父单承载整车金额、优惠券与配送地址，每个商家一个子单。
// 优惠券按各子单小计占比分摊，尾差记入最后一个子单。
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	userRepo    repository.UserRepository
	cartSvc     *CartService
	couponSvc   *CouponService
	zoneSvc     *DeliveryZoneService
	enqueuer    PointsEnqueuer
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, userRepo repository.UserRepository, cartSvc *CartService, couponSvc *CouponService, zoneSvc *DeliveryZoneService) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		userRepo:    userRepo,
		cartSvc:     cartSvc,
		couponSvc:   couponSvc,
		zoneSvc:     zoneSvc,
		now:         time.Now,
	}
}

// SetEnqueuer 注入积分发放队列
func (s *OrderService) SetEnqueuer(enqueuer PointsEnqueuer) {
	s.enqueuer = enqueuer
}

// SetClock 替换时钟（测试用）
func (s *OrderService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	UserID      uint
	CouponCode  string
	DeliveryCEP string
}

// Checkout 结算当前购物车，返回父订单
func (s *OrderService) Checkout(input CheckoutInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	role := constants.UserRoleConsumer
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		role = user.Role
	}

	details, err := s.cartSvc.ListByUser(input.UserID, role)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrCartEmpty
	}

	groups := GroupByStore(details)
	if len(groups) == 0 {
		return nil, ErrCartEmpty
	}

	deliveryCEP := ""
	if raw := strings.TrimSpace(input.DeliveryCEP); raw != "" {
		cep, err := NormalizeCEP(raw)
		if err != nil {
			return nil, err
		}
		deliveryCEP = cep
		for _, group := range groups {
			ok, err := s.zoneSvc.StoreDelivers(group.StoreID, cep)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrOutOfDeliveryArea
			}
		}
	}

	subtotal := decimal.Zero
	for _, d := range details {
		subtotal = subtotal.Add(d.Subtotal.Decimal)
	}

	var coupon *models.Coupon
	discount := decimal.Zero
	if code := strings.TrimSpace(input.CouponCode); code != "" {
		coupon, err = s.couponSvc.Validate(code, input.UserID, models.NewMoneyFromDecimal(subtotal))
		if err != nil {
			return nil, err
		}
		discount = s.couponSvc.Discount(coupon, models.NewMoneyFromDecimal(subtotal)).Decimal
	}

	parent := s.buildOrders(input.UserID, role, groups, subtotal, discount, deliveryCEP, coupon)

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		for _, d := range details {
			affected, err := productRepo.DecrementStock(d.ProductID, d.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return ErrInsufficientStock
			}
		}
		if err := s.orderRepo.WithTx(tx).Create(parent); err != nil {
			return err
		}
		if coupon != nil {
			if err := s.couponSvc.Redeem(tx, coupon, input.UserID, parent.ID); err != nil {
				return err
			}
		}
		cartRepo := s.cartRepo.WithTx(tx)
		cart, err := cartRepo.GetActive(input.UserID)
		if err != nil {
			return err
		}
		if cart != nil {
			if err := cartRepo.ClearItems(cart.ID); err != nil {
				return err
			}
			if err := cartRepo.Touch(cart.ID, s.now()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_created",
		"order_no", parent.OrderNo,
		"user_id", input.UserID,
		"stores", len(groups),
		"total", parent.TotalAmount.String(),
	)

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueuePointsAward(parent.ID); err != nil {
			logger.Errorw("order_points_enqueue_failed", "order_id", parent.ID, "error", err)
		}
	}
	return s.orderRepo.GetByID(parent.ID)
}

// buildOrders 组装父单与按商家拆分的子单
func (s *OrderService) buildOrders(userID uint, role string, groups []StoreGroup, subtotal, discount decimal.Decimal, deliveryCEP string, coupon *models.Coupon) *models.Order {
	parent := &models.Order{
		OrderNo:        newOrderNo(s.now()),
		UserID:         userID,
		Status:         constants.OrderStatusPending,
		SubtotalAmount: models.NewMoneyFromDecimal(subtotal),
		DiscountAmount: models.NewMoneyFromDecimal(discount),
		TotalAmount:    models.NewMoneyFromDecimal(subtotal.Sub(discount)),
		DeliveryCEP:    deliveryCEP,
	}
	if coupon != nil {
		parent.CouponID = &coupon.ID
	}

	allocated := decimal.Zero
	for i, group := range groups {
		storeID := group.StoreID
		storeSubtotal := decimal.Zero
		var items []models.OrderItem
		for _, d := range group.Items {
			points := PointsForProduct(d.Product, role)
			items = append(items, models.OrderItem{
				ProductID:       d.ProductID,
				StoreID:         storeID,
				ProductName:     d.Product.Name,
				Quantity:        d.Quantity,
				UnitPriceAmount: d.UnitPrice,
				TotalAmount:     d.Subtotal,
				PointsEarned:    points,
			})
			storeSubtotal = storeSubtotal.Add(d.Subtotal.Decimal)
		}

		var storeDiscount decimal.Decimal
		if i == len(groups)-1 {
			storeDiscount = discount.Sub(allocated)
		} else if subtotal.IsPositive() {
			storeDiscount = discount.Mul(storeSubtotal).Div(subtotal).Round(2)
			allocated = allocated.Add(storeDiscount)
		}

		parent.Children = append(parent.Children, models.Order{
			OrderNo:        newOrderNo(s.now()),
			UserID:         userID,
			StoreID:        &storeID,
			Status:         constants.OrderStatusPending,
			SubtotalAmount: models.NewMoneyFromDecimal(storeSubtotal),
			DiscountAmount: models.NewMoneyFromDecimal(storeDiscount),
			TotalAmount:    models.NewMoneyFromDecimal(storeSubtotal.Sub(storeDiscount)),
			DeliveryCEP:    deliveryCEP,
			Items:          items,
		})
	}
	return parent
}

// GetByID 获取订单，校验归属
func (s *OrderService) GetByID(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListByUser 用户订单列表，仅父单
func (s *OrderService) ListByUser(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	if userID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.orderRepo.List(repository.OrderListFilter{
		UserID:      userID,
		OnlyParents: true,
		Page:        page,
		PageSize:    pageSize,
	})
}

// ListAdmin 后台订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// GetAdminByID 后台订单详情
func (s *OrderService) GetAdminByID(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// UpdateStatusAdmin 后台更新订单状态
func (s *OrderService) UpdateStatusAdmin(orderID uint, status string) error {
	switch status {
	case constants.OrderStatusPending, constants.OrderStatusPaid,
		constants.OrderStatusShipped, constants.OrderStatusCompleted,
		constants.OrderStatusCanceled:
	default:
		return ErrInvalidInput
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrNotFound
	}
	return s.orderRepo.UpdateStatus(orderID, status)
}

func newOrderNo(now time.Time) string {
	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("FN%s%s", now.Format("20060102150405"), strings.ToUpper(fragment))
}
