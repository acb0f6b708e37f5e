package cost

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Percentages are carried to four decimal places
const pctScale = 4

var hundred = decimal.NewFromInt(100)

// DailyFinancialSummary holds one day of revenue, budget, and adjustment
// figures for a property. The actual cost, cost percentage, and variance
// columns are derived and recomputed whenever an input changes.
type DailyFinancialSummary struct {
	shared.TenantAggregateRoot
	PropertyID  uuid.UUID
	SummaryDate time.Time // Date only, normalized to midnight UTC

	// Revenue actuals
	ActualFoodRevenue     decimal.Decimal
	ActualBeverageRevenue decimal.Decimal

	// Budget figures
	BudgetFoodRevenue     decimal.Decimal
	BudgetBeverageRevenue decimal.Decimal
	BudgetFoodCostPct     decimal.Decimal
	BudgetBeverageCostPct decimal.Decimal

	// Cost totals carried over from the day's entries
	TotalFoodCost     decimal.Decimal
	TotalBeverageCost decimal.Decimal

	// Adjustments deducted from cost
	EntertainmentFood     decimal.Decimal
	EntertainmentBeverage decimal.Decimal
	OfficerCheckFood      decimal.Decimal
	OfficerCheckBeverage  decimal.Decimal

	// Derived
	ActualFoodCost        decimal.Decimal
	ActualBeverageCost    decimal.Decimal
	ActualFoodCostPct     decimal.Decimal
	ActualBeverageCostPct decimal.Decimal
	FoodVariancePct       decimal.Decimal
	BeverageVariancePct   decimal.Decimal

	Notes string
}

// NewDailyFinancialSummary creates a summary row for a property and date
func NewDailyFinancialSummary(tenantID, propertyID uuid.UUID, summaryDate time.Time) (*DailyFinancialSummary, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}

	day, err := normalizeEntryDate(summaryDate)
	if err != nil {
		return nil, err
	}

	summary := &DailyFinancialSummary{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          propertyID,
		SummaryDate:         day,
	}

	summary.AddDomainEvent(NewSummaryCreatedEvent(summary))

	return summary, nil
}

// SetActualRevenue sets the day's actual food and beverage revenue
func (s *DailyFinancialSummary) SetActualRevenue(food, beverage decimal.Decimal) error {
	if food.IsNegative() || beverage.IsNegative() {
		return shared.NewDomainError("INVALID_REVENUE", "Revenue cannot be negative")
	}

	s.ActualFoodRevenue = food
	s.ActualBeverageRevenue = beverage
	s.Recalculate()

	return nil
}

// SetBudget sets the day's budgeted revenue and cost percentages
func (s *DailyFinancialSummary) SetBudget(foodRevenue, beverageRevenue, foodCostPct, beverageCostPct decimal.Decimal) error {
	if foodRevenue.IsNegative() || beverageRevenue.IsNegative() {
		return shared.NewDomainError("INVALID_BUDGET", "Budget revenue cannot be negative")
	}
	if foodCostPct.IsNegative() || foodCostPct.GreaterThan(hundred) ||
		beverageCostPct.IsNegative() || beverageCostPct.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_BUDGET", "Budget cost percentage must be between 0 and 100")
	}

	s.BudgetFoodRevenue = foodRevenue
	s.BudgetBeverageRevenue = beverageRevenue
	s.BudgetFoodCostPct = foodCostPct
	s.BudgetBeverageCostPct = beverageCostPct
	s.Recalculate()

	return nil
}

// SetAdjustments sets entertainment and officer-check deductions
func (s *DailyFinancialSummary) SetAdjustments(entFood, entBeverage, ocFood, ocBeverage decimal.Decimal) error {
	for _, v := range []decimal.Decimal{entFood, entBeverage, ocFood, ocBeverage} {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustments cannot be negative")
		}
	}

	s.EntertainmentFood = entFood
	s.EntertainmentBeverage = entBeverage
	s.OfficerCheckFood = ocFood
	s.OfficerCheckBeverage = ocBeverage
	s.Recalculate()

	return nil
}

// ApplyEntryTotal carries a day's entry total into the summary
func (s *DailyFinancialSummary) ApplyEntryTotal(costType CostType, total decimal.Decimal) error {
	if !costType.IsValid() {
		return shared.NewDomainError("INVALID_COST_TYPE", "Cost type must be food or beverage")
	}
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost total cannot be negative")
	}

	if costType == CostTypeFood {
		s.TotalFoodCost = total
	} else {
		s.TotalBeverageCost = total
	}
	s.Recalculate()

	return nil
}

// SetNotes sets free-form notes on the summary
func (s *DailyFinancialSummary) SetNotes(notes string) error {
	if len(notes) > 1000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}

	s.Notes = notes
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Recalculate recomputes all derived columns from the current inputs.
// Cost percentage is zero on days with no revenue; those days are
// reported separately via HasZeroRevenue.
func (s *DailyFinancialSummary) Recalculate() {
	s.ActualFoodCost = s.TotalFoodCost.Sub(s.EntertainmentFood).Sub(s.OfficerCheckFood)
	s.ActualBeverageCost = s.TotalBeverageCost.Sub(s.EntertainmentBeverage).Sub(s.OfficerCheckBeverage)

	s.ActualFoodCostPct = costPct(s.ActualFoodCost, s.ActualFoodRevenue)
	s.ActualBeverageCostPct = costPct(s.ActualBeverageCost, s.ActualBeverageRevenue)

	s.FoodVariancePct = s.ActualFoodCostPct.Sub(s.BudgetFoodCostPct)
	s.BeverageVariancePct = s.ActualBeverageCostPct.Sub(s.BudgetBeverageCostPct)

	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// TotalActualRevenue returns combined food and beverage revenue
func (s *DailyFinancialSummary) TotalActualRevenue() decimal.Decimal {
	return s.ActualFoodRevenue.Add(s.ActualBeverageRevenue)
}

// TotalActualCost returns combined food and beverage actual cost
func (s *DailyFinancialSummary) TotalActualCost() decimal.Decimal {
	return s.ActualFoodCost.Add(s.ActualBeverageCost)
}

// BudgetedFoodCost returns the budgeted food cost amount for the day
func (s *DailyFinancialSummary) BudgetedFoodCost() decimal.Decimal {
	return s.BudgetFoodRevenue.Mul(s.BudgetFoodCostPct).Div(hundred).Round(pctScale)
}

// BudgetedBeverageCost returns the budgeted beverage cost amount for the day
func (s *DailyFinancialSummary) BudgetedBeverageCost() decimal.Decimal {
	return s.BudgetBeverageRevenue.Mul(s.BudgetBeverageCostPct).Div(hundred).Round(pctScale)
}

// HasZeroRevenue reports whether either revenue stream recorded nothing
// while cost was booked against it
func (s *DailyFinancialSummary) HasZeroRevenue() bool {
	zeroFood := s.ActualFoodRevenue.IsZero() && s.ActualFoodCost.IsPositive()
	zeroBeverage := s.ActualBeverageRevenue.IsZero() && s.ActualBeverageCost.IsPositive()
	return zeroFood || zeroBeverage
}

// costPct returns cost/revenue as a percentage, zero when revenue is zero
func costPct(cost, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return cost.Div(revenue).Mul(hundred).Round(pctScale)
}
