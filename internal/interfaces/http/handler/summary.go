package handler

import (
	costapp "github.com/fnbcost/backend/internal/application/cost"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SummaryHandler handles daily financial summary endpoints
type SummaryHandler struct {
	BaseHandler
	summaryService *costapp.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler
func NewSummaryHandler(summaryService *costapp.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// summaryLookupQuery identifies one summary by its natural key
type summaryLookupQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	Date       string `form:"date" binding:"required,datetime=2006-01-02"`
}

// summaryRangeQuery selects a span of days for one property
type summaryRangeQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	DateFrom   string `form:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"required,datetime=2006-01-02"`
}

// Upsert records a day's revenue, budget figures and adjustments
func (h *SummaryHandler) Upsert(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req costapp.UpsertSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if actorID, err := getUserID(c); err == nil {
		req.CreatedBy = &actorID
	}

	summary, err := h.summaryService.Upsert(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetByID retrieves a summary by ID
func (h *SummaryHandler) GetByID(c *gin.Context) {
	summaryID, ok := h.pathUUID(c, "id", "summary")
	if !ok {
		return
	}

	summary, err := h.summaryService.GetByID(c.Request.Context(), summaryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Lookup retrieves a summary by property and date
func (h *SummaryHandler) Lookup(c *gin.Context) {
	var query summaryLookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	summary, err := h.summaryService.GetByDate(c.Request.Context(), propertyID, query.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Range retrieves all summaries of a property over a date range, ordered
// by day
func (h *SummaryHandler) Range(c *gin.Context) {
	var query summaryRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	summaries, err := h.summaryService.Range(c.Request.Context(), propertyID, query.DateFrom, query.DateTo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summaries)
}

// List retrieves a paginated list of summaries
func (h *SummaryHandler) List(c *gin.Context) {
	var filter costapp.SummaryListFilter
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

	summaries, total, err := h.summaryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, summaries, total, filter.Page, filter.PageSize)
}

// Delete removes a summary
func (h *SummaryHandler) Delete(c *gin.Context) {
	summaryID, ok := h.pathUUID(c, "id", "summary")
	if !ok {
		return
	}

	if err := h.summaryService.Delete(c.Request.Context(), summaryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
