package public

import (
	"strings"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetProducts 公开商品列表
// 支持 store_id / category_id / search 过滤，cep 参数按配送范围过滤店铺。
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	input := service.ListPublicInput{
		StoreID:    handlershared.ParseUintQuery(c, "store_id"),
		CategoryID: handlershared.ParseUintQuery(c, "category_id"),
		Search:     strings.TrimSpace(c.Query("search")),
		CEP:        strings.TrimSpace(c.Query("cep")),
		Page:       page,
		PageSize:   pageSize,
	}

	products, total, err := h.ProductService.ListPublic(c.Request.Context(), input)
	if err != nil {
		if strings.TrimSpace(input.CEP) != "" {
			respondWithMappedError(c, err, []mappedHandlerError{
				{target: service.ErrInvalidCEP, code: response.CodeBadRequest, key: "error.invalid_cep"},
			}, response.CodeInternal, "error.internal")
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, gin.H{"products": products}, response.NewPagination(page, pageSize, total))
}

// GetProductBySlug 公开商品详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, view)
}

// GetCategories 公开分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CategoryService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"categories": categories})
}

// GetStores 公开商家列表
func (h *Handler) GetStores(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	stores, total, err := h.StoreService.ListPublic(strings.TrimSpace(c.Query("search")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"stores": stores}, response.NewPagination(page, pageSize, total))
}

// GetStoreDeliveryZones 公开商家配送区间
func (h *Handler) GetStoreDeliveryZones(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	zones, err := h.DeliveryZoneService.ListByStore(storeID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"zones": zones})
}
