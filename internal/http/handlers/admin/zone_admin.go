package admin

import (
	"errors"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ZoneRequest 创建/更新配送区间请求
type ZoneRequest struct {
	StoreID  uint   `json:"store_id" binding:"required"`
	Label    string `json:"label"`
	CEPStart string `json:"cep_start" binding:"required"`
	CEPEnd   string `json:"cep_end" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

func (req *ZoneRequest) toInput() service.ZoneInput {
	return service.ZoneInput{
		StoreID:  req.StoreID,
		Label:    req.Label,
		CEPStart: req.CEPStart,
		CEPEnd:   req.CEPEnd,
		IsActive: req.IsActive,
	}
}

// GetAdminDeliveryZones 后台配送区间列表（按商家）
func (h *Handler) GetAdminDeliveryZones(c *gin.Context) {
	storeID := handlershared.ParseUintQuery(c, "store_id")
	if storeID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	zones, err := h.DeliveryZoneService.ListByStore(storeID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"zones": zones})
}

// CreateDeliveryZone 后台创建配送区间
func (h *Handler) CreateDeliveryZone(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	zone, err := h.DeliveryZoneService.Create(req.toInput())
	if err != nil {
		respondZoneError(c, err)
		return
	}
	response.Success(c, zone)
}

// UpdateDeliveryZone 后台更新配送区间
func (h *Handler) UpdateDeliveryZone(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	zone, err := h.DeliveryZoneService.Update(id, req.toInput())
	if err != nil {
		respondZoneError(c, err)
		return
	}
	response.Success(c, zone)
}

// DeleteDeliveryZone 后台删除配送区间
func (h *Handler) DeleteDeliveryZone(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.DeliveryZoneService.Delete(id); err != nil {
		respondZoneError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func respondZoneError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.not_found", nil)
	case errors.Is(err, service.ErrInvalidCEP):
		respondError(c, response.CodeBadRequest, "error.invalid_cep", nil)
	case errors.Is(err, service.ErrInvalidInput):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
