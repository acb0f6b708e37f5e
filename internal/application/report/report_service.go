package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	costapp "github.com/fnbcost/backend/internal/application/cost"
	identityapp "github.com/fnbcost/backend/internal/application/identity"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/fnbcost/backend/internal/domain/report"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/fnbcost/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultTrendWindow    = 7
	defaultForecastWindow = 30

	// Forecast history window in days, counted back from today
	forecastHistoryDays = 90
)

var hundred = decimal.NewFromInt(100)

// ReportService builds budget comparisons, trends and forecasts from the
// recorded summaries and entries
type ReportService struct {
	summaryRepo cost.SummaryRepository
	entryRepo   cost.EntryRepository
	access      *identityapp.AccessGuard
	recorder    *auditapp.Recorder
	logger      *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	summaryRepo cost.SummaryRepository,
	entryRepo cost.EntryRepository,
	access *identityapp.AccessGuard,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		summaryRepo: summaryRepo,
		entryRepo:   entryRepo,
		access:      access,
		recorder:    recorder,
		logger:      logger,
	}
}

// BudgetVsActual compares booked figures against budget day by day over an
// inclusive date range
func (s *ReportService) BudgetVsActual(ctx context.Context, propertyID uuid.UUID, dateFrom, dateTo string) (*BudgetVsActualReport, error) {
	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	from, to, err := parseRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summaryRepo.FindByDateRange(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}

	result := &BudgetVsActualReport{
		PropertyID: propertyID,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		Rows:       make([]BudgetVsActualRow, 0, len(summaries)),
	}

	var actualRevenue, budgetRevenue, actualCost, budgetCost decimal.Decimal
	for _, summary := range summaries {
		budgetFoodCost := summary.BudgetedFoodCost()
		budgetBeverageCost := summary.BudgetedBeverageCost()

		result.Rows = append(result.Rows, BudgetVsActualRow{
			Date:                  costapp.FormatEntryDate(summary.SummaryDate),
			ActualFoodRevenue:     summary.ActualFoodRevenue,
			ActualBeverageRevenue: summary.ActualBeverageRevenue,
			BudgetFoodRevenue:     summary.BudgetFoodRevenue,
			BudgetBeverageRevenue: summary.BudgetBeverageRevenue,
			ActualFoodCost:        summary.ActualFoodCost,
			ActualBeverageCost:    summary.ActualBeverageCost,
			BudgetFoodCost:        budgetFoodCost,
			BudgetBeverageCost:    budgetBeverageCost,
			ActualFoodCostPct:     summary.ActualFoodCostPct,
			ActualBeverageCostPct: summary.ActualBeverageCostPct,
			FoodVariancePct:       summary.FoodVariancePct,
			BeverageVariancePct:   summary.BeverageVariancePct,
			ZeroRevenue:           summary.HasZeroRevenue(),
		})

		actualRevenue = actualRevenue.Add(summary.TotalActualRevenue())
		budgetRevenue = budgetRevenue.Add(summary.BudgetFoodRevenue).Add(summary.BudgetBeverageRevenue)
		actualCost = actualCost.Add(summary.TotalActualCost())
		budgetCost = budgetCost.Add(budgetFoodCost).Add(budgetBeverageCost)
	}

	result.Totals = buildPeriodTotals(len(summaries), actualRevenue, budgetRevenue, actualCost, budgetCost)

	return result, nil
}

// MonthToDate aggregates from the first of the month through the given day
func (s *ReportService) MonthToDate(ctx context.Context, propertyID uuid.UUID, asOf string) (*PeriodReport, error) {
	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	day, err := costapp.ParseEntryDate(asOf)
	if err != nil {
		return nil, err
	}

	start := day.AddDate(0, 0, 1-day.Day())
	return s.periodReport(ctx, propertyID, start, day)
}

// YearToDate aggregates from January 1st through the given day
func (s *ReportService) YearToDate(ctx context.Context, propertyID uuid.UUID, asOf string) (*PeriodReport, error) {
	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	day, err := costapp.ParseEntryDate(asOf)
	if err != nil {
		return nil, err
	}

	start := day.AddDate(0, -int(day.Month())+1, 1-day.Day())
	return s.periodReport(ctx, propertyID, start, day)
}

// CostTrend annotates the daily cost series with a moving average and an
// overall direction
func (s *ReportService) CostTrend(ctx context.Context, query TrendQuery) (*TrendReport, error) {
	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID must be a valid UUID")
	}

	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	from, to, err := parseRange(query.DateFrom, query.DateTo)
	if err != nil {
		return nil, err
	}

	window := query.Window
	if window == 0 {
		window = defaultTrendWindow
	}

	totals, err := s.entryRepo.DailyTotals(ctx, propertyID, cost.CostType(query.Type), from, to)
	if err != nil {
		return nil, err
	}

	series := toDataPoints(totals)
	points, err := report.MovingAverage(series, window)
	if err != nil {
		return nil, err
	}

	return &TrendReport{
		PropertyID: propertyID,
		Type:       query.Type,
		Window:     window,
		Direction:  string(report.Direction(series)),
		Points:     toTrendPoints(points),
	}, nil
}

// ForecastCosts projects the daily cost series forward from the most
// recent history
func (s *ReportService) ForecastCosts(ctx context.Context, query ForecastQuery) (result *ForecastReport, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "forecast")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	propertyID, err := uuid.Parse(query.PropertyID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID must be a valid UUID")
	}

	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	horizon := query.Horizon
	if horizon == 0 {
		horizon = defaultForecastWindow
	}

	to := cost.DateOnly(time.Now())
	from := to.AddDate(0, 0, -forecastHistoryDays)

	totals, err := s.entryRepo.DailyTotals(ctx, propertyID, cost.CostType(query.Type), from, to)
	if err != nil {
		return nil, err
	}

	series := toDataPoints(totals)
	points, err := report.Forecast(series, horizon)
	if err != nil {
		return nil, err
	}

	telemetry.SetAttribute(span, "forecast.history_days", len(series))
	telemetry.SetOK(span)

	return &ForecastReport{
		PropertyID:  propertyID,
		Type:        query.Type,
		HistoryDays: len(series),
		Horizon:     horizon,
		Points:      toForecastPoints(points),
	}, nil
}

// ExportBudgetVsActualCSV streams the budget comparison as CSV and records
// the export in the audit trail
func (s *ReportService) ExportBudgetVsActualCSV(ctx context.Context, tenantID, propertyID uuid.UUID, dateFrom, dateTo string, w io.Writer) error {
	if err := s.access.RequireManage(ctx, propertyID); err != nil {
		return err
	}

	data, err := s.BudgetVsActual(ctx, propertyID, dateFrom, dateTo)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{
		"date",
		"actual_food_revenue", "actual_beverage_revenue",
		"budget_food_revenue", "budget_beverage_revenue",
		"actual_food_cost", "actual_beverage_cost",
		"budget_food_cost", "budget_beverage_cost",
		"actual_food_cost_pct", "actual_beverage_cost_pct",
		"food_variance_pct", "beverage_variance_pct",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range data.Rows {
		record := []string{
			row.Date,
			row.ActualFoodRevenue.String(), row.ActualBeverageRevenue.String(),
			row.BudgetFoodRevenue.String(), row.BudgetBeverageRevenue.String(),
			row.ActualFoodCost.String(), row.ActualBeverageCost.String(),
			row.BudgetFoodCost.String(), row.BudgetBeverageCost.String(),
			row.ActualFoodCostPct.String(), row.ActualBeverageCostPct.String(),
			row.FoodVariancePct.String(), row.BeverageVariancePct.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	s.recordExport(ctx, tenantID, propertyID, "budget_vs_actual", dateFrom, dateTo)
	s.logger.Info("Budget report exported",
		zap.String("property_id", propertyID.String()),
		zap.String("date_from", dateFrom),
		zap.String("date_to", dateTo),
		zap.Int("rows", len(data.Rows)))

	return nil
}

// ExportCostTrendCSV streams the trend series as CSV and records the export
// in the audit trail
func (s *ReportService) ExportCostTrendCSV(ctx context.Context, tenantID uuid.UUID, query TrendQuery, w io.Writer) error {
	if err := s.requireManageFor(ctx, query.PropertyID); err != nil {
		return err
	}

	data, err := s.CostTrend(ctx, query)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "cost", "moving_average"}); err != nil {
		return err
	}

	for _, point := range data.Points {
		record := []string{point.Date, point.Value.String(), point.MovingAverage.String()}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	s.recordExport(ctx, tenantID, data.PropertyID, "cost_trend", query.DateFrom, query.DateTo)
	s.logger.Info("Trend report exported",
		zap.String("property_id", data.PropertyID.String()),
		zap.String("type", query.Type),
		zap.Int("rows", len(data.Points)))

	return nil
}

// ExportMonthToDateCSV streams the month-to-date totals as CSV and records
// the export in the audit trail
func (s *ReportService) ExportMonthToDateCSV(ctx context.Context, tenantID, propertyID uuid.UUID, asOf string, w io.Writer) error {
	if err := s.access.RequireManage(ctx, propertyID); err != nil {
		return err
	}

	data, err := s.MonthToDate(ctx, propertyID, asOf)
	if err != nil {
		return err
	}
	return s.exportPeriodCSV(ctx, tenantID, "month_to_date", data, w)
}

// ExportYearToDateCSV streams the year-to-date totals as CSV and records the
// export in the audit trail
func (s *ReportService) ExportYearToDateCSV(ctx context.Context, tenantID, propertyID uuid.UUID, asOf string, w io.Writer) error {
	if err := s.access.RequireManage(ctx, propertyID); err != nil {
		return err
	}

	data, err := s.YearToDate(ctx, propertyID, asOf)
	if err != nil {
		return err
	}
	return s.exportPeriodCSV(ctx, tenantID, "year_to_date", data, w)
}

func (s *ReportService) exportPeriodCSV(ctx context.Context, tenantID uuid.UUID, name string, data *PeriodReport, w io.Writer) error {
	writer := csv.NewWriter(w)
	header := []string{
		"segment", "days",
		"actual_revenue", "budget_revenue",
		"actual_cost", "budget_cost",
		"actual_cost_pct", "budget_cost_pct", "variance_pct",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	segments := []struct {
		label  string
		totals PeriodTotals
	}{
		{"food", data.Food},
		{"beverage", data.Beverage},
		{"combined", data.Combined},
	}
	for _, seg := range segments {
		record := []string{
			seg.label, strconv.Itoa(seg.totals.Days),
			seg.totals.ActualRevenue.String(), seg.totals.BudgetRevenue.String(),
			seg.totals.ActualCost.String(), seg.totals.BudgetCost.String(),
			seg.totals.ActualCostPct.String(), seg.totals.BudgetCostPct.String(),
			seg.totals.VariancePct.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	s.recordExport(ctx, tenantID, data.PropertyID, name, data.DateFrom, data.DateTo)
	s.logger.Info("Period report exported",
		zap.String("report", name),
		zap.String("property_id", data.PropertyID.String()),
		zap.String("date_to", data.DateTo))

	return nil
}

// ExportForecastCSV streams the projection as CSV and records the export in
// the audit trail
func (s *ReportService) ExportForecastCSV(ctx context.Context, tenantID uuid.UUID, query ForecastQuery, w io.Writer) error {
	if err := s.requireManageFor(ctx, query.PropertyID); err != nil {
		return err
	}

	data, err := s.ForecastCosts(ctx, query)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "value", "confidence"}); err != nil {
		return err
	}

	for _, point := range data.Points {
		record := []string{point.Date, point.Value.String(), point.Confidence.String()}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	last := ""
	if len(data.Points) > 0 {
		last = data.Points[len(data.Points)-1].Date
	}
	s.recordExport(ctx, tenantID, data.PropertyID, "forecast", costapp.FormatEntryDate(time.Now()), last)
	s.logger.Info("Forecast exported",
		zap.String("property_id", data.PropertyID.String()),
		zap.String("type", query.Type),
		zap.Int("rows", len(data.Points)))

	return nil
}

func (s *ReportService) periodReport(ctx context.Context, propertyID uuid.UUID, from, to time.Time) (*PeriodReport, error) {
	summaries, err := s.summaryRepo.FindByDateRange(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}

	var (
		foodRevenue, foodBudgetRevenue, foodCost, foodBudgetCost decimal.Decimal
		bevRevenue, bevBudgetRevenue, bevCost, bevBudgetCost     decimal.Decimal
	)
	for _, summary := range summaries {
		foodRevenue = foodRevenue.Add(summary.ActualFoodRevenue)
		foodBudgetRevenue = foodBudgetRevenue.Add(summary.BudgetFoodRevenue)
		foodCost = foodCost.Add(summary.ActualFoodCost)
		foodBudgetCost = foodBudgetCost.Add(summary.BudgetedFoodCost())

		bevRevenue = bevRevenue.Add(summary.ActualBeverageRevenue)
		bevBudgetRevenue = bevBudgetRevenue.Add(summary.BudgetBeverageRevenue)
		bevCost = bevCost.Add(summary.ActualBeverageCost)
		bevBudgetCost = bevBudgetCost.Add(summary.BudgetedBeverageCost())
	}

	days := len(summaries)
	return &PeriodReport{
		PropertyID: propertyID,
		DateFrom:   costapp.FormatEntryDate(from),
		DateTo:     costapp.FormatEntryDate(to),
		Food:       buildPeriodTotals(days, foodRevenue, foodBudgetRevenue, foodCost, foodBudgetCost),
		Beverage:   buildPeriodTotals(days, bevRevenue, bevBudgetRevenue, bevCost, bevBudgetCost),
		Combined: buildPeriodTotals(days,
			foodRevenue.Add(bevRevenue),
			foodBudgetRevenue.Add(bevBudgetRevenue),
			foodCost.Add(bevCost),
			foodBudgetCost.Add(bevBudgetCost)),
	}, nil
}

// buildPeriodTotals derives period percentages from summed amounts rather
// than averaging the daily percentages
func buildPeriodTotals(days int, actualRevenue, budgetRevenue, actualCost, budgetCost decimal.Decimal) PeriodTotals {
	totals := PeriodTotals{
		Days:          days,
		ActualRevenue: actualRevenue,
		BudgetRevenue: budgetRevenue,
		ActualCost:    actualCost,
		BudgetCost:    budgetCost,
	}

	if !actualRevenue.IsZero() {
		totals.ActualCostPct = actualCost.Div(actualRevenue).Mul(hundred).Round(2)
	}
	if !budgetRevenue.IsZero() {
		totals.BudgetCostPct = budgetCost.Div(budgetRevenue).Mul(hundred).Round(2)
	}
	totals.VariancePct = totals.ActualCostPct.Sub(totals.BudgetCostPct)

	return totals
}

func parseRange(dateFrom, dateTo string) (time.Time, time.Time, error) {
	from, err := costapp.ParseEntryDate(dateFrom)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := costapp.ParseEntryDate(dateTo)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}
	return from, to, nil
}

func toDataPoints(totals []cost.DailyTotal) []report.DataPoint {
	points := make([]report.DataPoint, len(totals))
	for i, t := range totals {
		points[i] = report.DataPoint{Date: t.Date, Value: t.Total}
	}
	return points
}

// requireManageFor parses a property ID taken from a query string and
// demands a manager grant on it. Exports sit at manager level.
func (s *ReportService) requireManageFor(ctx context.Context, propertyID string) error {
	id, err := uuid.Parse(propertyID)
	if err != nil {
		return shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID must be a valid UUID")
	}
	return s.access.RequireManage(ctx, id)
}

func (s *ReportService) recordExport(ctx context.Context, tenantID, propertyID uuid.UUID, name, dateFrom, dateTo string) {
	log, err := audit.NewAuditLog(tenantID, audit.ActionExport, "report")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.
		WithProperty(propertyID).
		WithDetails(`{"report":"`+name+`","date_from":"`+dateFrom+`","date_to":"`+dateTo+`"}`))
}
