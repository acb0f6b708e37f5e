package handler

import (
	propertyapp "github.com/fnbcost/backend/internal/application/property"
	"github.com/gin-gonic/gin"
)

// PropertyHandler handles property management endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *propertyapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *propertyapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
	}
}

// Create creates a new property
func (h *PropertyHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req propertyapp.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if actorID, err := getUserID(c); err == nil {
		req.CreatedBy = &actorID
	}

	property, err := h.propertyService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, property)
}

// GetByID retrieves a property by ID
func (h *PropertyHandler) GetByID(c *gin.Context) {
	propertyID, ok := h.pathUUID(c, "id", "property")
	if !ok {
		return
	}

	property, err := h.propertyService.GetByID(c.Request.Context(), propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// GetByCode retrieves a property by its short code
func (h *PropertyHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Property code is required")
		return
	}

	property, err := h.propertyService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// List retrieves a paginated list of properties
func (h *PropertyHandler) List(c *gin.Context) {
	var filter propertyapp.PropertyListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	properties, total, err := h.propertyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, properties, total, filter.Page, filter.PageSize)
}

// Update updates a property's details
func (h *PropertyHandler) Update(c *gin.Context) {
	propertyID, ok := h.pathUUID(c, "id", "property")
	if !ok {
		return
	}

	var req propertyapp.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), propertyID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// Activate activates a property
func (h *PropertyHandler) Activate(c *gin.Context) {
	propertyID, ok := h.pathUUID(c, "id", "property")
	if !ok {
		return
	}

	property, err := h.propertyService.Activate(c.Request.Context(), propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// Deactivate deactivates a property
func (h *PropertyHandler) Deactivate(c *gin.Context) {
	propertyID, ok := h.pathUUID(c, "id", "property")
	if !ok {
		return
	}

	property, err := h.propertyService.Deactivate(c.Request.Context(), propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, property)
}

// Delete removes a property. Properties with recorded entries cannot be
// deleted.
func (h *PropertyHandler) Delete(c *gin.Context) {
	propertyID, ok := h.pathUUID(c, "id", "property")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), propertyID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
