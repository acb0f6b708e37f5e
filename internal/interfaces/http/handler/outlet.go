package handler

import (
	propertyapp "github.com/fnbcost/backend/internal/application/property"
	"github.com/gin-gonic/gin"
)

// OutletHandler handles outlet management endpoints
type OutletHandler struct {
	BaseHandler
	outletService *propertyapp.OutletService
}

// NewOutletHandler creates a new OutletHandler
func NewOutletHandler(outletService *propertyapp.OutletService) *OutletHandler {
	return &OutletHandler{
		outletService: outletService,
	}
}

// Create creates a new outlet under a property
func (h *OutletHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req propertyapp.CreateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if actorID, err := getUserID(c); err == nil {
		req.CreatedBy = &actorID
	}

	outlet, err := h.outletService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, outlet)
}

// GetByID retrieves an outlet by ID
func (h *OutletHandler) GetByID(c *gin.Context) {
	outletID, ok := h.pathUUID(c, "id", "outlet")
	if !ok {
		return
	}

	outlet, err := h.outletService.GetByID(c.Request.Context(), outletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outlet)
}

// ListByProperty lists all outlets of a property
func (h *OutletHandler) ListByProperty(c *gin.Context) {
	propertyID, ok := h.pathUUID(c, "id", "property")
	if !ok {
		return
	}

	outlets, err := h.outletService.ListByProperty(c.Request.Context(), propertyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outlets)
}

// Update updates an outlet's name
func (h *OutletHandler) Update(c *gin.Context) {
	outletID, ok := h.pathUUID(c, "id", "outlet")
	if !ok {
		return
	}

	var req propertyapp.UpdateOutletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	outlet, err := h.outletService.Update(c.Request.Context(), outletID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outlet)
}

// Activate activates an outlet
func (h *OutletHandler) Activate(c *gin.Context) {
	outletID, ok := h.pathUUID(c, "id", "outlet")
	if !ok {
		return
	}

	outlet, err := h.outletService.Activate(c.Request.Context(), outletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outlet)
}

// Deactivate deactivates an outlet
func (h *OutletHandler) Deactivate(c *gin.Context) {
	outletID, ok := h.pathUUID(c, "id", "outlet")
	if !ok {
		return
	}

	outlet, err := h.outletService.Deactivate(c.Request.Context(), outletID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, outlet)
}

// Delete removes an outlet. Outlets referenced by entries cannot be deleted.
func (h *OutletHandler) Delete(c *gin.Context) {
	outletID, ok := h.pathUUID(c, "id", "outlet")
	if !ok {
		return
	}

	if err := h.outletService.Delete(c.Request.Context(), outletID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
