package cost

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// entryDateLayout is the wire format for entry and summary dates
const entryDateLayout = "2006-01-02"

// ParseEntryDate parses a YYYY-MM-DD date string
func ParseEntryDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation(entryDateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
	}
	return day, nil
}

// FormatEntryDate formats a date as YYYY-MM-DD
func FormatEntryDate(t time.Time) string {
	return t.UTC().Format(entryDateLayout)
}

// =============================================================================
// Cost entry DTOs
// =============================================================================

// DetailRequest represents one category line on an entry
type DetailRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Cost        decimal.Decimal `json:"cost" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// UpsertEntryRequest represents a request to record a day's costs.
// Submitting a second time for the same property, type and date replaces
// the existing entry's lines.
type UpsertEntryRequest struct {
	PropertyID uuid.UUID       `json:"property_id" binding:"required"`
	OutletID   *uuid.UUID      `json:"outlet_id"`
	Type       string          `json:"type" binding:"required,oneof=food beverage"`
	EntryDate  string          `json:"entry_date" binding:"required,datetime=2006-01-02"`
	Details    []DetailRequest `json:"details" binding:"required,min=1,dive"`
	Notes      string          `json:"notes" binding:"max=1000"`
	CreatedBy  *uuid.UUID      `json:"-"` // Set from JWT context, not from request body
}

// DetailResponse represents one category line in API responses
type DetailResponse struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description,omitempty"`
}

// EntryResponse represents a cost entry in API responses
type EntryResponse struct {
	ID         uuid.UUID        `json:"id"`
	TenantID   uuid.UUID        `json:"tenant_id"`
	PropertyID uuid.UUID        `json:"property_id"`
	OutletID   *uuid.UUID       `json:"outlet_id,omitempty"`
	Type       string           `json:"type"`
	EntryDate  string           `json:"entry_date"`
	Total      decimal.Decimal  `json:"total"`
	Details    []DetailResponse `json:"details"`
	Notes      string           `json:"notes,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Version    int              `json:"version"`
}

// EntryListFilter represents filter options for the entry list
type EntryListFilter struct {
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	OutletID   string `form:"outlet_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,oneof=food beverage"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=400"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ToEntryResponse converts a domain CostEntry to an EntryResponse
func ToEntryResponse(e *cost.CostEntry) EntryResponse {
	details := make([]DetailResponse, len(e.Details))
	for i, d := range e.Details {
		details[i] = DetailResponse{
			ID:          d.ID,
			CategoryID:  d.CategoryID,
			Cost:        d.Cost,
			Description: d.Description,
		}
	}

	return EntryResponse{
		ID:         e.ID,
		TenantID:   e.TenantID,
		PropertyID: e.PropertyID,
		OutletID:   e.OutletID,
		Type:       string(e.Type),
		EntryDate:  FormatEntryDate(e.EntryDate),
		Total:      e.Total,
		Details:    details,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
		Version:    e.Version,
	}
}

// ToEntryResponses converts a slice of domain CostEntries
func ToEntryResponses(entries []*cost.CostEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(e)
	}
	return responses
}

// =============================================================================
// Daily summary DTOs
// =============================================================================

// UpsertSummaryRequest represents a request to record a day's revenue,
// budget figures and adjustments. Cost totals come from the entries of the
// same day and cannot be set directly.
type UpsertSummaryRequest struct {
	PropertyID  uuid.UUID `json:"property_id" binding:"required"`
	SummaryDate string    `json:"summary_date" binding:"required,datetime=2006-01-02"`

	ActualFoodRevenue     decimal.Decimal `json:"actual_food_revenue"`
	ActualBeverageRevenue decimal.Decimal `json:"actual_beverage_revenue"`

	BudgetFoodRevenue     decimal.Decimal `json:"budget_food_revenue"`
	BudgetBeverageRevenue decimal.Decimal `json:"budget_beverage_revenue"`
	BudgetFoodCostPct     decimal.Decimal `json:"budget_food_cost_pct"`
	BudgetBeverageCostPct decimal.Decimal `json:"budget_beverage_cost_pct"`

	EntertainmentFood     decimal.Decimal `json:"entertainment_food"`
	EntertainmentBeverage decimal.Decimal `json:"entertainment_beverage"`
	OfficerCheckFood      decimal.Decimal `json:"officer_check_food"`
	OfficerCheckBeverage  decimal.Decimal `json:"officer_check_beverage"`

	Notes     string     `json:"notes" binding:"max=1000"`
	CreatedBy *uuid.UUID `json:"-"`
}

// SummaryResponse represents a daily financial summary in API responses
type SummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	SummaryDate string    `json:"summary_date"`

	ActualFoodRevenue     decimal.Decimal `json:"actual_food_revenue"`
	ActualBeverageRevenue decimal.Decimal `json:"actual_beverage_revenue"`

	BudgetFoodRevenue     decimal.Decimal `json:"budget_food_revenue"`
	BudgetBeverageRevenue decimal.Decimal `json:"budget_beverage_revenue"`
	BudgetFoodCostPct     decimal.Decimal `json:"budget_food_cost_pct"`
	BudgetBeverageCostPct decimal.Decimal `json:"budget_beverage_cost_pct"`

	TotalFoodCost     decimal.Decimal `json:"total_food_cost"`
	TotalBeverageCost decimal.Decimal `json:"total_beverage_cost"`

	EntertainmentFood     decimal.Decimal `json:"entertainment_food"`
	EntertainmentBeverage decimal.Decimal `json:"entertainment_beverage"`
	OfficerCheckFood      decimal.Decimal `json:"officer_check_food"`
	OfficerCheckBeverage  decimal.Decimal `json:"officer_check_beverage"`

	ActualFoodCost        decimal.Decimal `json:"actual_food_cost"`
	ActualBeverageCost    decimal.Decimal `json:"actual_beverage_cost"`
	ActualFoodCostPct     decimal.Decimal `json:"actual_food_cost_pct"`
	ActualBeverageCostPct decimal.Decimal `json:"actual_beverage_cost_pct"`
	FoodVariancePct       decimal.Decimal `json:"food_variance_pct"`
	BeverageVariancePct   decimal.Decimal `json:"beverage_variance_pct"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// SummaryListFilter represents filter options for the summary list
type SummaryListFilter struct {
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=400"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ToSummaryResponse converts a domain DailyFinancialSummary to a SummaryResponse
func ToSummaryResponse(s *cost.DailyFinancialSummary) SummaryResponse {
	return SummaryResponse{
		ID:          s.ID,
		TenantID:    s.TenantID,
		PropertyID:  s.PropertyID,
		SummaryDate: FormatEntryDate(s.SummaryDate),

		ActualFoodRevenue:     s.ActualFoodRevenue,
		ActualBeverageRevenue: s.ActualBeverageRevenue,

		BudgetFoodRevenue:     s.BudgetFoodRevenue,
		BudgetBeverageRevenue: s.BudgetBeverageRevenue,
		BudgetFoodCostPct:     s.BudgetFoodCostPct,
		BudgetBeverageCostPct: s.BudgetBeverageCostPct,

		TotalFoodCost:     s.TotalFoodCost,
		TotalBeverageCost: s.TotalBeverageCost,

		EntertainmentFood:     s.EntertainmentFood,
		EntertainmentBeverage: s.EntertainmentBeverage,
		OfficerCheckFood:      s.OfficerCheckFood,
		OfficerCheckBeverage:  s.OfficerCheckBeverage,

		ActualFoodCost:        s.ActualFoodCost,
		ActualBeverageCost:    s.ActualBeverageCost,
		ActualFoodCostPct:     s.ActualFoodCostPct,
		ActualBeverageCostPct: s.ActualBeverageCostPct,
		FoodVariancePct:       s.FoodVariancePct,
		BeverageVariancePct:   s.BeverageVariancePct,

		Notes:     s.Notes,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Version:   s.Version,
	}
}

// ToSummaryResponses converts a slice of domain summaries
func ToSummaryResponses(summaries []*cost.DailyFinancialSummary) []SummaryResponse {
	responses := make([]SummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = ToSummaryResponse(s)
	}
	return responses
}
