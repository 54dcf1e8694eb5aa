package admin

import (
	handlershared "github.com/feira-next/internal/http/handlers/shared"
	"github.com/feira-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, ok := handlershared.ParseUintParam(c, name)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return id, true
}
