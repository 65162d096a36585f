package handler

import (
	"net/http"

	"rentalfleet/internal/middleware"
	"rentalfleet/internal/model"
	"rentalfleet/internal/service"
	"rentalfleet/pkg/pagination"
	"rentalfleet/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit-logs")
	audit.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		audit.GET("", h.ListAuditLogs)
	}
}

// @Summary      List audit logs
// @Description  Retrieves the audit trail of vehicle and booking changes, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action  query     string  false  "Filter by action (e.g. CREATE_BOOKING)"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200  {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.auditService.ListAuditLogs(c.Request.Context(), c.Query("action"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": entries,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}
