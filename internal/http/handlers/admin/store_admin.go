package admin

import (
	"errors"
	"strings"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreRequest 创建/更新商家请求
type StoreRequest struct {
	Slug      string `json:"slug" binding:"required"`
	Name      string `json:"name" binding:"required"`
	CNPJ      string `json:"cnpj"`
	Logo      string `json:"logo"`
	IsActive  *bool  `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

func (req *StoreRequest) toInput() service.StoreInput {
	return service.StoreInput{
		Slug:      req.Slug,
		Name:      req.Name,
		CNPJ:      req.CNPJ,
		Logo:      req.Logo,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	}
}

// GetAdminStores 后台商家列表
func (h *Handler) GetAdminStores(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	stores, total, err := h.StoreService.ListAdmin(strings.TrimSpace(c.Query("search")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, gin.H{"stores": stores}, response.NewPagination(page, pageSize, total))
}

// GetAdminStore 后台商家详情
func (h *Handler) GetAdminStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	store, err := h.StoreService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, store)
}

// CreateStore 后台创建商家
func (h *Handler) CreateStore(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, err := h.StoreService.Create(req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, store)
}

// UpdateStore 后台更新商家
func (h *Handler) UpdateStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, err := h.StoreService.Update(id, req.toInput())
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
	response.Success(c, store)
}

// DeleteStore 后台删除商家
func (h *Handler) DeleteStore(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.StoreService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
