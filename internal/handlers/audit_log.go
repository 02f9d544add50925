package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mfreitas/chatterline/internal/services"
	"github.com/mfreitas/chatterline/pkg/response"
	"gorm.io/gorm"
)

type AuditLogHandler struct {
	auditService *services.AuditService
}

func NewAuditLogHandler(db *gorm.DB) *AuditLogHandler {
	return &AuditLogHandler{auditService: services.NewAuditService(db)}
}

// List returns a page of audit entries.
// GET /api/audit-logs
func (h *AuditLogHandler) List(c *gin.Context) {
	var req services.AuditListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters")
		return
	}

	resp, err := h.auditService.List(&req)
	if err != nil {
		response.ServerError(c, "failed to list audit logs")
		return
	}

	response.JSON(c, resp)
}
