package handler

import (
	costapp "github.com/fnbcost/backend/internal/application/cost"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntryHandler handles daily cost entry endpoints
type EntryHandler struct {
	BaseHandler
	entryService *costapp.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *costapp.EntryService) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
	}
}

// entryLookupQuery identifies one entry by its natural key
type entryLookupQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	Type       string `form:"type" binding:"required,oneof=food beverage"`
	Date       string `form:"date" binding:"required,datetime=2006-01-02"`
}

// Upsert records a day's costs. Submitting again for the same property,
// type and date replaces the entry's lines.
func (h *EntryHandler) Upsert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req costapp.UpsertEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if actorID, err := getUserID(c); err == nil {
		req.CreatedBy = &actorID
	}

	entry, err := h.entryService.Upsert(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// GetByID retrieves a cost entry by ID
func (h *EntryHandler) GetByID(c *gin.Context) {
	entryID, ok := h.pathUUID(c, "id", "entry")
	if !ok {
		return
	}

	entry, err := h.entryService.GetByID(c.Request.Context(), entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Lookup retrieves a cost entry by property, type and date
func (h *EntryHandler) Lookup(c *gin.Context) {
	var query entryLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	entry, err := h.entryService.GetByDate(c.Request.Context(), propertyID, query.Type, query.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// List retrieves a paginated list of cost entries
func (h *EntryHandler) List(c *gin.Context) {
	var filter costapp.EntryListFilter
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

	entries, total, err := h.entryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// Delete removes a cost entry and zeroes its share of the day's summary
func (h *EntryHandler) Delete(c *gin.Context) {
	entryID, ok := h.pathUUID(c, "id", "entry")
	if !ok {
		return
	}

	if err := h.entryService.Delete(c.Request.Context(), entryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
