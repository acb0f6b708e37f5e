package handler

import (
	"context"

	identityapp "github.com/fnbcost/backend/internal/application/identity"
	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleHandler serves the role and permission administration endpoints.
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// Create adds a role to the tenant.
func (h *RoleHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req identityapp.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if actorID, err := getUserID(c); err == nil {
		req.CreatedBy = &actorID
	}

	role, err := h.roleService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, role)
}

func (h *RoleHandler) GetByID(c *gin.Context) {
	roleID, ok := h.pathUUID(c, "id", "role")
	if !ok {
		return
	}

	role, err := h.roleService.GetByID(c.Request.Context(), roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// List returns every role of the tenant.
func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, roles)
}

// Update changes a role's name, description or sort order.
func (h *RoleHandler) Update(c *gin.Context) {
	roleID, ok := h.pathUUID(c, "id", "role")
	if !ok {
		return
	}

	var req identityapp.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	role, err := h.roleService.Update(c.Request.Context(), roleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// SetPermissions replaces a role's permission set with the requested one.
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	roleID, ok := h.pathUUID(c, "id", "role")
	if !ok {
		return
	}

	var req identityapp.SetPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	role, err := h.roleService.SetPermissions(c.Request.Context(), roleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// GetPermissions lists the permission catalog roles can draw from.
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	catalog := identity.AllPermissions()

	permissions := make([]identityapp.PermissionResponse, len(catalog))
	for i, p := range catalog {
		permissions[i] = identityapp.PermissionResponse{
			Code:        p.Code,
			Resource:    p.Resource,
			Action:      p.Action,
			Description: p.Description,
		}
	}
	h.Success(c, permissions)
}

func (h *RoleHandler) Enable(c *gin.Context) {
	h.transition(c, h.roleService.Enable)
}

func (h *RoleHandler) Disable(c *gin.Context) {
	h.transition(c, h.roleService.Disable)
}

func (h *RoleHandler) transition(c *gin.Context, op func(context.Context, uuid.UUID) (*identityapp.RoleResponse, error)) {
	roleID, ok := h.pathUUID(c, "id", "role")
	if !ok {
		return
	}

	role, err := op(c.Request.Context(), roleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// Delete removes a role. Roles still assigned to users are rejected by the
// service.
func (h *RoleHandler) Delete(c *gin.Context) {
	roleID, ok := h.pathUUID(c, "id", "role")
	if !ok {
		return
	}

	if err := h.roleService.Delete(c.Request.Context(), roleID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
