package handler

import (
	identityapp "github.com/fnbcost/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// AccessHandler handles property access grant endpoints
type AccessHandler struct {
	BaseHandler
	accessService *identityapp.AccessService
}

// NewAccessHandler creates a new AccessHandler
func NewAccessHandler(accessService *identityapp.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}

// Grant grants a user access to a property
func (h *AccessHandler) Grant(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identityapp.GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if actorID, err := getUserID(c); err == nil {
		req.GrantedBy = &actorID
	}

	grant, err := h.accessService.Grant(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, grant)
}

// GetByID retrieves an access grant by ID
func (h *AccessHandler) GetByID(c *gin.Context) {
	accessID, ok := h.pathUUID(c, "id", "access grant")
	if !ok {
		return
	}

	grant, err := h.accessService.GetByID(c.Request.Context(), accessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, grant)
}

// ListByUser lists all grants held by a user
func (h *AccessHandler) ListByUser(c *gin.Context) {
	userID, ok := h.pathUUID(c, "id", "user")
	if !ok {
		return
	}

	grants, err := h.accessService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, grants)
}

// ListByProperty lists all grants on a property
func (h *AccessHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := h.pathUUID(c, "id", "property")
	if !ok {
		return
	}

	grants, err := h.accessService.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, grants)
}

// MyProperties lists the property IDs the current user can reach
func (h *AccessHandler) MyProperties(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	propertyIDs, err := h.accessService.AccessibleProperties(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"property_ids": propertyIDs})
}

// ChangeLevel changes the level of an existing grant
func (h *AccessHandler) ChangeLevel(c *gin.Context) {
	accessID, ok := h.pathUUID(c, "id", "access grant")
	if !ok {
		return
	}

	var req identityapp.ChangeAccessLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	grant, err := h.accessService.ChangeLevel(c.Request.Context(), accessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, grant)
}

// Revoke revokes an access grant
func (h *AccessHandler) Revoke(c *gin.Context) {
	accessID, ok := h.pathUUID(c, "id", "access grant")
	if !ok {
		return
	}

	if err := h.accessService.Revoke(c.Request.Context(), accessID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
