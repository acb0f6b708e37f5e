package handler

import (
	"fmt"
	"time"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	"github.com/gin-gonic/gin"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	BaseHandler
	queryService *auditapp.QueryService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(queryService *auditapp.QueryService) *AuditHandler {
	return &AuditHandler{
		queryService: queryService,
	}
}

// List retrieves a paginated, filtered slice of the audit trail
func (h *AuditHandler) List(c *gin.Context) {
	var filter auditapp.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 50
	}

	logs, total, err := h.queryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, logs, total, filter.Page, filter.PageSize)
}

// GetByID retrieves one audit record
func (h *AuditHandler) GetByID(c *gin.Context) {
	logID, ok := h.pathUUID(c, "id", "audit log")
	if !ok {
		return
	}

	log, err := h.queryService.GetByID(c.Request.Context(), logID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, log)
}

// Export streams the filtered audit trail as a CSV download
func (h *AuditHandler) Export(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter auditapp.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	filename := fmt.Sprintf("audit-log-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.queryService.ExportCSV(c.Request.Context(), tenantID, filter, c.Writer); err != nil {
		h.HandleError(c, err)
		return
	}
}
