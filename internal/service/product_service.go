package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/feira-next/internal/cache"
	"github.com/feira-next/internal/logger"
	"github.com/feira-next/internal/models"
	"github.com/feira-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductView 商品 + 即时促销窗口
type ProductView struct {
	models.Product
	Promotion PromotionWindow `json:"promotion"`
}

// ProductService 商品服务
type ProductService struct {
	repo      repository.ProductRepository
	zones     *DeliveryZoneService
	evaluator *PromotionEvaluator
	listCache *cache.Store
	now       func() time.Time
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, zones *DeliveryZoneService, evaluator *PromotionEvaluator) *ProductService {
	return &ProductService{
		repo:      repo,
		zones:     zones,
		evaluator: evaluator,
		listCache: cache.NewStore(time.Minute),
		now:       time.Now,
	}
}

// ListPublicInput 公开商品列表查询
type ListPublicInput struct {
	StoreID    uint
	CategoryID uint
	Search     string
	CEP        string
	Page       int
	PageSize   int
}

// ListPublic 公开商品列表，可按配送 CEP 过滤，结果带促销窗口。
// CEP 过滤先算出不配送的商家再下推到 SQL，分页和 total 都在库内成立。
func (s *ProductService) ListPublic(ctx context.Context, input ListPublicInput) ([]ProductView, int64, error) {
	var excluded []uint
	if cep := strings.TrimSpace(input.CEP); cep != "" {
		covering, configured, err := s.zones.StoreIDsCovering(cep)
		if err != nil {
			return nil, 0, err
		}
		for storeID := range configured {
			if !covering[storeID] {
				excluded = append(excluded, storeID)
			}
		}
	}

	products, total, err := s.listProducts(ctx, input, excluded)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			Product:   p,
			Promotion: s.evaluator.Evaluate(&p, now),
		})
	}
	return views, total, nil
}

// listProducts 列表查询，无 CEP 过滤的页走短 TTL 缓存
func (s *ProductService) listProducts(ctx context.Context, input ListPublicInput, excludeStoreIDs []uint) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:            input.Page,
		PageSize:        input.PageSize,
		StoreID:         input.StoreID,
		CategoryID:      input.CategoryID,
		Search:          strings.TrimSpace(input.Search),
		ExcludeStoreIDs: excludeStoreIDs,
		OnlyActive:      true,
		WithStore:       true,
		WithCategory:    true,
	}

	cacheable := filter.Search == "" && strings.TrimSpace(input.CEP) == ""
	key := fmt.Sprintf("catalog:store=%d:cat=%d:p=%d:ps=%d",
		filter.StoreID, filter.CategoryID, filter.Page, filter.PageSize)

	if cacheable {
		if raw, ok := s.listCache.Get(ctx, key); ok {
			var cached struct {
				Products []models.Product `json:"products"`
				Total    int64            `json:"total"`
			}
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached.Products, cached.Total, nil
			}
		}
	}

	products, total, err := s.repo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		payload, err := json.Marshal(struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}{products, total})
		if err == nil {
			if err := s.listCache.Set(ctx, key, payload); err != nil {
				logger.Warnw("catalog_cache_store_failed", "key", key, "error", err)
			}
		}
	}
	return products, total, nil
}

// GetPublicBySlug 公开商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*ProductView, error) {
	product, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return &ProductView{
		Product:   *product,
		Promotion: s.evaluator.Evaluate(product, s.now()),
	}, nil
}

// ProductInput 后台创建/更新商品输入
type ProductInput struct {
	StoreID            uint
	CategoryID         uint
	Slug               string
	Name               string
	Description        string
	SpecsJSON          map[string]interface{}
	Images             []string
	Tags               []string
	PriceAmount        decimal.Decimal
	PromoPriceAmount   decimal.Decimal
	PromoActive        *bool
	PromoStartsAt      *time.Time
	PromoEndsAt        *time.Time
	Stock              decimal.Decimal
	UnitType           string
	UnitStep           decimal.Decimal
	PointsConsumer     int64
	PointsProfessional int64
	IsActive           *bool
	SortOrder          int
}

// CreateAdmin 后台创建商品
func (s *ProductService) CreateAdmin(input ProductInput) (*models.Product, error) {
	product := &models.Product{IsActive: true, UnitStep: models.NewQuantityFromInt(1)}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.listCache.Invalidate()
	return product, nil
}

// UpdateAdmin 后台更新商品
func (s *ProductService) UpdateAdmin(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if err := applyProductInput(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.listCache.Invalidate()
	return product, nil
}

// DeleteAdmin 后台删除商品
func (s *ProductService) DeleteAdmin(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.listCache.Invalidate()
	return nil
}

// ListAdmin 后台商品列表
func (s *ProductService) ListAdmin(storeID, categoryID uint, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		StoreID:      storeID,
		CategoryID:   categoryID,
		Search:       strings.TrimSpace(search),
		WithStore:    true,
		WithCategory: true,
	})
}

// GetAdminByID 后台商品详情
func (s *ProductService) GetAdminByID(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func applyProductInput(product *models.Product, input ProductInput) error {
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if input.StoreID == 0 || input.CategoryID == 0 || slug == "" || name == "" {
		return ErrInvalidInput
	}
	if input.PriceAmount.IsNegative() || input.PromoPriceAmount.IsNegative() || input.Stock.IsNegative() {
		return ErrInvalidInput
	}

	product.StoreID = input.StoreID
	product.CategoryID = input.CategoryID
	product.Slug = slug
	product.Name = name
	product.Description = input.Description
	product.SpecsJSON = input.SpecsJSON
	product.Images = input.Images
	product.Tags = input.Tags
	product.PriceAmount = models.NewMoneyFromDecimal(input.PriceAmount)
	product.PromoPriceAmount = models.NewMoneyFromDecimal(input.PromoPriceAmount)
	product.PromoStartsAt = input.PromoStartsAt
	product.PromoEndsAt = input.PromoEndsAt
	product.Stock = models.NewQuantityFromDecimal(input.Stock)
	product.PointsConsumer = input.PointsConsumer
	product.PointsProfessional = input.PointsProfessional
	product.SortOrder = input.SortOrder
	if input.PromoActive != nil {
		product.PromoActive = *input.PromoActive
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if unitType := strings.TrimSpace(input.UnitType); unitType != "" {
		product.UnitType = unitType
	}
	if input.UnitStep.IsPositive() {
		product.UnitStep = models.NewQuantityFromDecimal(input.UnitStep)
	}
	return nil
}
