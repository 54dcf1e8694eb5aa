package provider

import (
	"github.com/feira-next/internal/cache"
	"github.com/feira-next/internal/config"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/notice"
	"github.com/feira-next/internal/queue"
	"github.com/feira-next/internal/repository"
	"github.com/feira-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config       *config.Config
	QueueClient  *queue.Client
	NoticeCenter *notice.Center
	Notifier     notice.Notifier

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	StoreRepo        repository.StoreRepository
	CategoryRepo     repository.CategoryRepository
	ProductRepo      repository.ProductRepository
	CartRepo         repository.CartRepository
	CouponRepo       repository.CouponRepository
	OrderRepo        repository.OrderRepository
	PointsRepo       repository.PointsRepository
	DeliveryZoneRepo repository.DeliveryZoneRepository
	MaintenanceRepo  repository.MaintenanceRepository

	// Services
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	StoreService        *service.StoreService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	CartService         *service.CartService
	CouponService       *service.CouponService
	OrderService        *service.OrderService
	LoyaltyService      *service.LoyaltyService
	DeliveryZoneService *service.DeliveryZoneService
	PromotionEvaluator  *service.PromotionEvaluator
	CartWatchdog        *service.CartWatchdog
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	center := notice.NewCenter()
	c := &Container{
		Config:       cfg,
		QueueClient:  queueClient,
		NoticeCenter: center,
		Notifier:     notice.Multi{notice.LogNotifier{}, center},
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.StoreRepo = repository.NewStoreRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PointsRepo = repository.NewPointsRepository(db)
	c.DeliveryZoneRepo = repository.NewDeliveryZoneRepository(db)
	c.MaintenanceRepo = repository.NewMaintenanceRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.PromotionEvaluator = service.NewPromotionEvaluator(cfg.App.Location())

	c.AuthService = service.NewAuthService(cfg, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.StoreService = service.NewStoreService(c.StoreRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.DeliveryZoneService = service.NewDeliveryZoneService(c.DeliveryZoneRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.DeliveryZoneService, c.PromotionEvaluator)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.PromotionEvaluator)
	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo, c.ProductRepo, c.CartRepo, c.UserRepo,
		c.CartService, c.CouponService, c.DeliveryZoneService,
	)
	c.LoyaltyService = service.NewLoyaltyService(c.PointsRepo, c.OrderRepo)

	c.CartWatchdog = service.NewCartWatchdog(
		c.CartRepo, c.CartService, c.PromotionEvaluator, c.Notifier,
		cfg.Cart.WatchdogInterval(), cfg.Cart.EndingSoonWindow(),
	)
	c.CartService.SetOnChanged(c.CartWatchdog.OnCartChanged)

	if c.QueueClient != nil {
		c.OrderService.SetEnqueuer(c.QueueClient)
	}
}
