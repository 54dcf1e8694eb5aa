package public

import (
	"strings"

	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"
	"github.com/feira-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckDelivery 查询指定商家是否配送到某 CEP
func (h *Handler) CheckDelivery(c *gin.Context) {
	storeID := handlershared.ParseUintQuery(c, "store_id")
	cep := strings.TrimSpace(c.Query("cep"))
	if storeID == 0 || cep == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	delivers, err := h.DeliveryZoneService.StoreDelivers(storeID, cep)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrInvalidCEP, code: response.CodeBadRequest, key: "error.invalid_cep"},
		}, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"delivers": delivers})
}
