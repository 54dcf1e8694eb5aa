package admin

import (
	"errors"
	"strings"
	"time"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	StoreID            uint                   `json:"store_id" binding:"required"`
	CategoryID         uint                   `json:"category_id"`
	Slug               string                 `json:"slug" binding:"required"`
	Name               string                 `json:"name" binding:"required"`
	Description        string                 `json:"description"`
	Specs              map[string]interface{} `json:"specs"`
	Images             []string               `json:"images"`
	Tags               []string               `json:"tags"`
	PriceAmount        float64                `json:"price_amount" binding:"required"`
	PromoPriceAmount   float64                `json:"promo_price_amount"`
	PromoActive        *bool                  `json:"promo_active"`
	PromoStartsAt      string                 `json:"promo_starts_at"`
	PromoEndsAt        string                 `json:"promo_ends_at"`
	Stock              float64                `json:"stock"`
	UnitType           string                 `json:"unit_type"`
	UnitStep           float64                `json:"unit_step"`
	PointsConsumer     int64                  `json:"points_consumer"`
	PointsProfessional int64                  `json:"points_professional"`
	IsActive           *bool                  `json:"is_active"`
	SortOrder          int                    `json:"sort_order"`
}

func (req *ProductRequest) toInput() (service.ProductInput, error) {
	startsAt, err := parseTimeNullable(req.PromoStartsAt)
	if err != nil {
		return service.ProductInput{}, err
	}
	endsAt, err := parseTimeNullable(req.PromoEndsAt)
	if err != nil {
		return service.ProductInput{}, err
	}
	return service.ProductInput{
		StoreID:            req.StoreID,
		CategoryID:         req.CategoryID,
		Slug:               req.Slug,
		Name:               req.Name,
		Description:        req.Description,
		SpecsJSON:          req.Specs,
		Images:             req.Images,
		Tags:               req.Tags,
		PriceAmount:        decimal.NewFromFloat(req.PriceAmount),
		PromoPriceAmount:   decimal.NewFromFloat(req.PromoPriceAmount),
		PromoActive:        req.PromoActive,
		PromoStartsAt:      startsAt,
		PromoEndsAt:        endsAt,
		Stock:              decimal.NewFromFloat(req.Stock),
		UnitType:           req.UnitType,
		UnitStep:           decimal.NewFromFloat(req.UnitStep),
		PointsConsumer:     req.PointsConsumer,
		PointsProfessional: req.PointsProfessional,
		IsActive:           req.IsActive,
		SortOrder:          req.SortOrder,
	}, nil
}

// GetAdminProducts 后台商品列表
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	products, total, err := h.ProductService.ListAdmin(
		handlershared.ParseUintQuery(c, "store_id"),
		handlershared.ParseUintQuery(c, "category_id"),
		strings.TrimSpace(c.Query("search")),
		page, pageSize,
	)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"products": products}, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 后台商品详情
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetAdminByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 后台创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.CreateAdmin(input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 后台更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, err := req.toInput()
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.UpdateAdmin(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, product)
}

// DeleteProduct 后台删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.DeleteAdmin(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
