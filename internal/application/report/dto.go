package report

import (
	"github.com/fnbcost/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetVsActualRow compares one day's booked figures against its budget
type BudgetVsActualRow struct {
	Date string `json:"date"`

	ActualFoodRevenue     decimal.Decimal `json:"actual_food_revenue"`
	ActualBeverageRevenue decimal.Decimal `json:"actual_beverage_revenue"`
	BudgetFoodRevenue     decimal.Decimal `json:"budget_food_revenue"`
	BudgetBeverageRevenue decimal.Decimal `json:"budget_beverage_revenue"`

	ActualFoodCost     decimal.Decimal `json:"actual_food_cost"`
	ActualBeverageCost decimal.Decimal `json:"actual_beverage_cost"`
	BudgetFoodCost     decimal.Decimal `json:"budget_food_cost"`
	BudgetBeverageCost decimal.Decimal `json:"budget_beverage_cost"`

	ActualFoodCostPct     decimal.Decimal `json:"actual_food_cost_pct"`
	ActualBeverageCostPct decimal.Decimal `json:"actual_beverage_cost_pct"`
	FoodVariancePct       decimal.Decimal `json:"food_variance_pct"`
	BeverageVariancePct   decimal.Decimal `json:"beverage_variance_pct"`

	ZeroRevenue bool `json:"zero_revenue,omitempty"`
}

// PeriodTotals aggregates a span of days
type PeriodTotals struct {
	Days int `json:"days"`

	ActualRevenue decimal.Decimal `json:"actual_revenue"`
	BudgetRevenue decimal.Decimal `json:"budget_revenue"`
	ActualCost    decimal.Decimal `json:"actual_cost"`
	BudgetCost    decimal.Decimal `json:"budget_cost"`

	// ActualCostPct is period cost over period revenue, not an average of
	// the daily percentages
	ActualCostPct decimal.Decimal `json:"actual_cost_pct"`
	BudgetCostPct decimal.Decimal `json:"budget_cost_pct"`
	VariancePct   decimal.Decimal `json:"variance_pct"`
}

// BudgetVsActualReport is the full budget comparison over a date range
type BudgetVsActualReport struct {
	PropertyID uuid.UUID           `json:"property_id"`
	DateFrom   string              `json:"date_from"`
	DateTo     string              `json:"date_to"`
	Rows       []BudgetVsActualRow `json:"rows"`
	Totals     PeriodTotals        `json:"totals"`
}

// PeriodReport carries month-to-date or year-to-date totals
type PeriodReport struct {
	PropertyID uuid.UUID    `json:"property_id"`
	DateFrom   string       `json:"date_from"`
	DateTo     string       `json:"date_to"`
	Food       PeriodTotals `json:"food"`
	Beverage   PeriodTotals `json:"beverage"`
	Combined   PeriodTotals `json:"combined"`
}

// TrendPoint is one day of the cost trend
type TrendPoint struct {
	Date          string          `json:"date"`
	Value         decimal.Decimal `json:"value"`
	MovingAverage decimal.Decimal `json:"moving_average"`
}

// TrendReport annotates a cost series with its moving average and overall
// direction
type TrendReport struct {
	PropertyID uuid.UUID    `json:"property_id"`
	Type       string       `json:"type"`
	Window     int          `json:"window"`
	Direction  string       `json:"direction"`
	Points     []TrendPoint `json:"points"`
}

// ForecastPoint is one projected day
type ForecastPoint struct {
	Date       string          `json:"date"`
	Value      decimal.Decimal `json:"value"`
	Confidence decimal.Decimal `json:"confidence"`
}

// ForecastReport projects a cost series past its last observation
type ForecastReport struct {
	PropertyID  uuid.UUID       `json:"property_id"`
	Type        string          `json:"type"`
	HistoryDays int             `json:"history_days"`
	Horizon     int             `json:"horizon"`
	Points      []ForecastPoint `json:"points"`
}

// TrendQuery holds the bound query parameters of the trend endpoint
type TrendQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	Type       string `form:"type" binding:"required,oneof=food beverage"`
	DateFrom   string `form:"date_from" binding:"required,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"required,datetime=2006-01-02"`
	Window     int    `form:"window" binding:"omitempty,min=2,max=30"`
}

// ForecastQuery holds the bound query parameters of the forecast endpoint
type ForecastQuery struct {
	PropertyID string `form:"property_id" binding:"required,uuid"`
	Type       string `form:"type" binding:"required,oneof=food beverage"`
	Horizon    int    `form:"horizon" binding:"omitempty,min=1,max=90"`
}

func toForecastPoints(points []report.ForecastPoint) []ForecastPoint {
	result := make([]ForecastPoint, len(points))
	for i, p := range points {
		result[i] = ForecastPoint{
			Date:       p.Date.UTC().Format("2006-01-02"),
			Value:      p.Value,
			Confidence: p.Confidence,
		}
	}
	return result
}

func toTrendPoints(points []report.TrendPoint) []TrendPoint {
	result := make([]TrendPoint, len(points))
	for i, p := range points {
		result[i] = TrendPoint{
			Date:          p.Date.UTC().Format("2006-01-02"),
			Value:         p.Value,
			MovingAverage: p.MovingAverage,
		}
	}
	return result
}
