package handler

import (
	"context"
	"fmt"
	"io"
	"time"

	costapp "github.com/fnbcost/backend/internal/application/cost"
	reportapp "github.com/fnbcost/backend/internal/application/report"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler handles budget, trend and forecast report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// budgetVsActualQuery selects the property and range of the comparison
type budgetVsActualQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	DateFrom   string `form:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"required,datetime=2006-01-02"`
}

// periodQuery selects the property and reference day of a period report
type periodQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	AsOf       string `form:"as_of" binding:"omitempty,datetime=2006-01-02"`
}

// BudgetVsActual compares booked figures against budget, day by day
func (h *ReportHandler) BudgetVsActual(c *gin.Context) {
	var query budgetVsActualQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	result, err := h.reportService.BudgetVsActual(c.Request.Context(), propertyID, query.DateFrom, query.DateTo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// MonthToDate aggregates from the first of the month through the given day
func (h *ReportHandler) MonthToDate(c *gin.Context) {
	query, propertyID, ok := h.bindPeriodQuery(c)
	if !ok {
		return
	}

	result, err := h.reportService.MonthToDate(c.Request.Context(), propertyID, query.AsOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// YearToDate aggregates from January 1st through the given day
func (h *ReportHandler) YearToDate(c *gin.Context) {
	query, propertyID, ok := h.bindPeriodQuery(c)
	if !ok {
		return
	}

	result, err := h.reportService.YearToDate(c.Request.Context(), propertyID, query.AsOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CostTrend returns the daily cost series with its moving average
func (h *ReportHandler) CostTrend(c *gin.Context) {
	var query reportapp.TrendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.reportService.CostTrend(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Forecast projects the daily cost series forward
func (h *ReportHandler) Forecast(c *gin.Context) {
	var query reportapp.ForecastQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.reportService.ForecastCosts(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportBudgetVsActual streams the budget comparison as a CSV download
func (h *ReportHandler) ExportBudgetVsActual(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query budgetVsActualQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return
	}

	filename := fmt.Sprintf("budget-vs-actual-%s-%s.csv", query.DateFrom, query.DateTo)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	err = h.reportService.ExportBudgetVsActualCSV(c.Request.Context(), tenantID, propertyID, query.DateFrom, query.DateTo, c.Writer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
}

// ExportTrend streams the trend series as a CSV download
func (h *ReportHandler) ExportTrend(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query reportapp.TrendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	filename := fmt.Sprintf("cost-trend-%s-%s-%s.csv", query.Type, query.DateFrom, query.DateTo)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.reportService.ExportCostTrendCSV(c.Request.Context(), tenantID, query, c.Writer); err != nil {
		h.HandleError(c, err)
		return
	}
}

// ExportMonthToDate streams the month-to-date totals as a CSV download
func (h *ReportHandler) ExportMonthToDate(c *gin.Context) {
	h.exportPeriod(c, "month-to-date", h.reportService.ExportMonthToDateCSV)
}

// ExportYearToDate streams the year-to-date totals as a CSV download
func (h *ReportHandler) ExportYearToDate(c *gin.Context) {
	h.exportPeriod(c, "year-to-date", h.reportService.ExportYearToDateCSV)
}

func (h *ReportHandler) exportPeriod(c *gin.Context, name string, export func(ctx context.Context, tenantID, propertyID uuid.UUID, asOf string, w io.Writer) error) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	query, propertyID, ok := h.bindPeriodQuery(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"-"+query.AsOf+".csv"))

	if err := export(c.Request.Context(), tenantID, propertyID, query.AsOf, c.Writer); err != nil {
		h.HandleError(c, err)
		return
	}
}

// ExportForecast streams the projection as a CSV download
func (h *ReportHandler) ExportForecast(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var query reportapp.ForecastQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	filename := fmt.Sprintf("forecast-%s.csv", query.Type)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.reportService.ExportForecastCSV(c.Request.Context(), tenantID, query, c.Writer); err != nil {
		h.HandleError(c, err)
		return
	}
}

// bindPeriodQuery binds the common period query, defaulting as_of to today
func (h *ReportHandler) bindPeriodQuery(c *gin.Context) (periodQuery, uuid.UUID, bool) {
	var query periodQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return query, uuid.Nil, false
	}

	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		h.BadRequest(c, "Invalid property ID format")
		return query, uuid.Nil, false
	}

	if query.AsOf == "" {
		query.AsOf = costapp.FormatEntryDate(time.Now())
	}

	return query, propertyID, true
}
