package constants

// 购物车状态
const (
	CartStatusActive   = "active"
	CartStatusArchived = "archived"
)

// 用户身份（影响积分倍率）
const (
	UserRoleConsumer     = "consumer"
	UserRoleProfessional = "professional"
)

// 商品计量单位类型
const (
	UnitTypePiece  = "unit" // 按件
	UnitTypeWeight = "kg"   // 按重量
	UnitTypeArea   = "m2"   // 按面积
)

// 优惠券类型
const (
	CouponTypeFixed   = "fixed"
	CouponTypePercent = "percent"
)

// 订单状态
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// 积分流水类型
const (
	PointsTxTypeOrderAward = "order_award"
	PointsTxTypeAdjustment = "adjustment"
)

// 队列与任务名称
const (
	QueueDefault = "default"

	TaskCartArchiveSweep = "cart:archive_sweep"
	TaskOrderPointsAward = "order:points_award"
)

// 通知严重级别
const (
	NoticeSeveritySuccess = "success"
	NoticeSeverityInfo    = "info"
	NoticeSeverityWarning = "warning"
	NoticeSeverityError   = "error"
)
