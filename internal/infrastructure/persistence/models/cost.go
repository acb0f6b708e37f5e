package models

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostEntryModel maps the CostEntry aggregate header. Detail lines live in
// cost_entry_details and are loaded alongside the header.
type CostEntryModel struct {
	TenantAggregateModel
	PropertyID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_entry_property_type_date,priority:1"`
	OutletID   *uuid.UUID      `gorm:"type:uuid;index"`
	CostType   cost.CostType   `gorm:"type:varchar(10);not null;uniqueIndex:idx_entry_property_type_date,priority:2"`
	EntryDate  time.Time       `gorm:"type:date;not null;uniqueIndex:idx_entry_property_type_date,priority:3;index"`
	Total      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Notes      string          `gorm:"type:varchar(1000)"`
}

func (CostEntryModel) TableName() string { return "cost_entries" }

// ToDomain maps the header columns. Detail lines are attached separately by
// the repository.
func (m *CostEntryModel) ToDomain() *cost.CostEntry {
	e := &cost.CostEntry{
		PropertyID: m.PropertyID,
		OutletID:   m.OutletID,
		Type:       m.CostType,
		EntryDate:  cost.DateOnly(m.EntryDate),
		Total:      m.Total,
		Details:    make([]cost.CostDetail, 0),
		Notes:      m.Notes,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

func CostEntryModelFromDomain(e *cost.CostEntry) *CostEntryModel {
	m := &CostEntryModel{
		PropertyID: e.PropertyID,
		OutletID:   e.OutletID,
		CostType:   e.Type,
		EntryDate:  e.EntryDate,
		Total:      e.Total,
		Notes:      e.Notes,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}

// CostEntryDetailModel maps one category line on an entry.
type CostEntryDetailModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	EntryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Description string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
}

func (CostEntryDetailModel) TableName() string { return "cost_entry_details" }

func (m *CostEntryDetailModel) ToDomain() cost.CostDetail {
	return cost.CostDetail{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Cost:        m.Cost,
		Description: m.Description,
	}
}

// DailySummaryModel maps the DailyFinancialSummary aggregate. One row per
// property and day.
type DailySummaryModel struct {
	TenantAggregateModel
	PropertyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_summary_property_date,priority:1"`
	SummaryDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_summary_property_date,priority:2;index"`

	ActualFoodRevenue     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ActualBeverageRevenue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	BudgetFoodRevenue     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BudgetBeverageRevenue decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BudgetFoodCostPct     decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	BudgetBeverageCostPct decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`

	TotalFoodCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalBeverageCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	EntertainmentFood     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	EntertainmentBeverage decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OfficerCheckFood      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OfficerCheckBeverage  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	ActualFoodCost        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ActualBeverageCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ActualFoodCostPct     decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	ActualBeverageCostPct decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	FoodVariancePct       decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	BeverageVariancePct   decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`

	Notes string `gorm:"type:varchar(1000)"`
}

func (DailySummaryModel) TableName() string { return "daily_financial_summaries" }

func (m *DailySummaryModel) ToDomain() *cost.DailyFinancialSummary {
	s := &cost.DailyFinancialSummary{
		PropertyID:  m.PropertyID,
		SummaryDate: cost.DateOnly(m.SummaryDate),

		ActualFoodRevenue:     m.ActualFoodRevenue,
		ActualBeverageRevenue: m.ActualBeverageRevenue,

		BudgetFoodRevenue:     m.BudgetFoodRevenue,
		BudgetBeverageRevenue: m.BudgetBeverageRevenue,
		BudgetFoodCostPct:     m.BudgetFoodCostPct,
		BudgetBeverageCostPct: m.BudgetBeverageCostPct,

		TotalFoodCost:     m.TotalFoodCost,
		TotalBeverageCost: m.TotalBeverageCost,

		EntertainmentFood:     m.EntertainmentFood,
		EntertainmentBeverage: m.EntertainmentBeverage,
		OfficerCheckFood:      m.OfficerCheckFood,
		OfficerCheckBeverage:  m.OfficerCheckBeverage,

		ActualFoodCost:        m.ActualFoodCost,
		ActualBeverageCost:    m.ActualBeverageCost,
		ActualFoodCostPct:     m.ActualFoodCostPct,
		ActualBeverageCostPct: m.ActualBeverageCostPct,
		FoodVariancePct:       m.FoodVariancePct,
		BeverageVariancePct:   m.BeverageVariancePct,

		Notes: m.Notes,
	}
	m.PopulateTenantAggregateRoot(&s.TenantAggregateRoot)
	return s
}

func DailySummaryModelFromDomain(s *cost.DailyFinancialSummary) *DailySummaryModel {
	m := &DailySummaryModel{
		PropertyID:  s.PropertyID,
		SummaryDate: s.SummaryDate,

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

		Notes: s.Notes,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}
