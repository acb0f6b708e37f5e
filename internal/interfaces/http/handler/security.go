package handler

import (
	securityapp "github.com/fnbcost/backend/internal/application/security"
	"github.com/gin-gonic/gin"
)

// SecurityHandler handles the security dashboard endpoints. The signals are
// heuristic and descriptive; nothing here blocks a user.
type SecurityHandler struct {
	BaseHandler
	securityService *securityapp.Service
}

// NewSecurityHandler creates a new SecurityHandler
func NewSecurityHandler(securityService *securityapp.Service) *SecurityHandler {
	return &SecurityHandler{
		securityService: securityService,
	}
}

// Overview aggregates the audit trail by action, resource and day
func (h *SecurityHandler) Overview(c *gin.Context) {
	var query securityapp.OverviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.securityService.ActivityOverview(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Threats scores per-user behavior and lists burst and failed login signals
func (h *SecurityHandler) Threats(c *gin.Context) {
	var query securityapp.OverviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.securityService.ThreatReport(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
