package report

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	identityapp "github.com/fnbcost/backend/internal/application/identity"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/fnbcost/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockSummaryRepository is a mock implementation of cost.SummaryRepository
type MockSummaryRepository struct {
	mock.Mock
}

func (m *MockSummaryRepository) Create(ctx context.Context, summary *cost.DailyFinancialSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryRepository) Update(ctx context.Context, summary *cost.DailyFinancialSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockSummaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSummaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cost.DailyFinancialSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cost.DailyFinancialSummary), args.Error(1)
}

func (m *MockSummaryRepository) FindByPropertyAndDate(ctx context.Context, propertyID uuid.UUID, date time.Time) (*cost.DailyFinancialSummary, error) {
	args := m.Called(ctx, propertyID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cost.DailyFinancialSummary), args.Error(1)
}

func (m *MockSummaryRepository) FindByDateRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]*cost.DailyFinancialSummary, error) {
	args := m.Called(ctx, propertyID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cost.DailyFinancialSummary), args.Error(1)
}

func (m *MockSummaryRepository) FindAll(ctx context.Context, filter cost.EntryFilter) ([]*cost.DailyFinancialSummary, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*cost.DailyFinancialSummary), args.Get(1).(int64), args.Error(2)
}

// MockEntryRepository is a mock implementation of cost.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *cost.CostEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *cost.CostEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cost.CostEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cost.CostEntry), args.Error(1)
}

func (m *MockEntryRepository) FindByPropertyAndDate(ctx context.Context, propertyID uuid.UUID, costType cost.CostType, date time.Time) (*cost.CostEntry, error) {
	args := m.Called(ctx, propertyID, costType, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cost.CostEntry), args.Error(1)
}

func (m *MockEntryRepository) FindAll(ctx context.Context, filter cost.EntryFilter) ([]*cost.CostEntry, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*cost.CostEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryRepository) DailyTotals(ctx context.Context, propertyID uuid.UUID, costType cost.CostType, from, to time.Time) ([]cost.DailyTotal, error) {
	args := m.Called(ctx, propertyID, costType, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cost.DailyTotal), args.Error(1)
}

func (m *MockEntryRepository) CategoryInUse(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.AuditLog), args.Error(1)
}

func (m *MockAuditRepository) FindAll(ctx context.Context, filter audit.Filter) ([]*audit.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*audit.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepository) CountByAction(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.ActionCount), args.Error(1)
}

func (m *MockAuditRepository) CountByResource(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.ActionCount), args.Error(1)
}

func (m *MockAuditRepository) CountByDay(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.ActionCount), args.Error(1)
}

func (m *MockAuditRepository) UserActivity(ctx context.Context, from, to time.Time, startHour, endHour int) ([]audit.UserActivity, error) {
	args := m.Called(ctx, from, to, startHour, endHour)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.UserActivity), args.Error(1)
}

func (m *MockAuditRepository) HourlyCounts(ctx context.Context, from, to time.Time) ([]audit.HourlyCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.HourlyCount), args.Error(1)
}

func (m *MockAuditRepository) FailedLoginClusters(ctx context.Context, from, to time.Time, minCount int64) ([]audit.FailedLoginCluster, error) {
	args := m.Called(ctx, from, to, minCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.FailedLoginCluster), args.Error(1)
}

// MockAccessRepository is a mock implementation of identity.PropertyAccessRepository
type MockAccessRepository struct {
	mock.Mock
}

func (m *MockAccessRepository) Create(ctx context.Context, access *identity.PropertyAccess) error {
	args := m.Called(ctx, access)
	return args.Error(0)
}

func (m *MockAccessRepository) Update(ctx context.Context, access *identity.PropertyAccess) error {
	args := m.Called(ctx, access)
	return args.Error(0)
}

func (m *MockAccessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccessRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.PropertyAccess, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.PropertyAccess), args.Error(1)
}

func (m *MockAccessRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*identity.PropertyAccess, error) {
	args := m.Called(ctx, userID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.PropertyAccess), args.Error(1)
}

func (m *MockAccessRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*identity.PropertyAccess, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.PropertyAccess), args.Error(1)
}

func (m *MockAccessRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*identity.PropertyAccess, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.PropertyAccess), args.Error(1)
}

func (m *MockAccessRepository) PropertyIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// Test helpers
func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestPropertyID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func newTestUserID() uuid.UUID {
	return uuid.MustParse("55555555-5555-5555-5555-555555555555")
}

// grantedContext carries the acting user the way the JWT middleware does
// for real requests
func grantedContext() context.Context {
	ctx, _ := logger.WithUserID(context.Background(), zap.NewNop(), newTestUserID().String())
	return ctx
}

// newTestAccessGuard answers every grant lookup with a grant of the given
// level for the standard test user and property
func newTestAccessGuard(level identity.AccessLevel) *identityapp.AccessGuard {
	repo := new(MockAccessRepository)
	grant, _ := identity.NewPropertyAccess(newTestTenantID(), newTestUserID(), newTestPropertyID(), level)
	repo.On("FindByUserAndProperty", mock.Anything, mock.Anything, mock.Anything).Return(grant, nil).Maybe()
	return identityapp.NewAccessGuard(repo, zap.NewNop())
}

func newReportService(summaryRepo *MockSummaryRepository, entryRepo *MockEntryRepository) (*ReportService, *MockAuditRepository) {
	return newReportServiceWithGuard(summaryRepo, entryRepo, newTestAccessGuard(identity.AccessLevelManager))
}

func newReportServiceWithGuard(summaryRepo *MockSummaryRepository, entryRepo *MockEntryRepository, guard *identityapp.AccessGuard) (*ReportService, *MockAuditRepository) {
	auditRepo := new(MockAuditRepository)
	auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*audit.AuditLog")).Return(nil).Maybe()
	recorder := auditapp.NewRecorder(auditRepo, zap.NewNop())
	return NewReportService(summaryRepo, entryRepo, guard, recorder, zap.NewNop()), auditRepo
}

func day(value string) time.Time {
	d, _ := time.ParseInLocation("2006-01-02", value, time.UTC)
	return d
}

// createSummary builds a summary with revenue, budget and entry costs set
func createSummary(t *testing.T, propertyID uuid.UUID, date time.Time, foodRevenue, foodCost float64) *cost.DailyFinancialSummary {
	t.Helper()
	summary, err := cost.NewDailyFinancialSummary(newTestTenantID(), propertyID, date)
	assert.NoError(t, err)
	assert.NoError(t, summary.SetActualRevenue(decimal.NewFromFloat(foodRevenue), decimal.NewFromFloat(500)))
	assert.NoError(t, summary.SetBudget(
		decimal.NewFromFloat(1000), decimal.NewFromFloat(500),
		decimal.NewFromFloat(30), decimal.NewFromFloat(25)))
	assert.NoError(t, summary.ApplyEntryTotal(cost.CostTypeFood, decimal.NewFromFloat(foodCost)))
	assert.NoError(t, summary.ApplyEntryTotal(cost.CostTypeBeverage, decimal.NewFromFloat(100)))
	return summary
}

// Tests for ReportService.BudgetVsActual
func TestReportService_BudgetVsActual(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	from := day("2026-08-01")
	to := day("2026-08-02")

	first := createSummary(t, propertyID, from, 1000, 300)
	second := createSummary(t, propertyID, to, 1000, 360)

	summaryRepo.On("FindByDateRange", mock.Anything, propertyID, from, to).
		Return([]*cost.DailyFinancialSummary{first, second}, nil)

	result, err := service.BudgetVsActual(grantedContext(), propertyID, "2026-08-01", "2026-08-02")

	assert.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, "2026-08-01", result.Rows[0].Date)
	assert.True(t, decimal.NewFromFloat(30).Equal(result.Rows[0].ActualFoodCostPct))
	assert.True(t, result.Rows[0].FoodVariancePct.IsZero())
	assert.True(t, decimal.NewFromFloat(6).Equal(result.Rows[1].FoodVariancePct))
	// Budgeted food cost per day is 30% of 1000
	assert.True(t, decimal.NewFromFloat(300).Equal(result.Rows[0].BudgetFoodCost))

	assert.Equal(t, 2, result.Totals.Days)
	assert.True(t, decimal.NewFromFloat(3000).Equal(result.Totals.ActualRevenue))
	// (300+100) + (360+100) booked over 3000 revenue
	assert.True(t, decimal.NewFromFloat(860).Equal(result.Totals.ActualCost))
	summaryRepo.AssertExpectations(t)
}

func TestReportService_BudgetVsActual_RejectsInvertedRange(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	_, err := service.BudgetVsActual(grantedContext(), newTestPropertyID(), "2026-08-10", "2026-08-01")

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE_RANGE", domainErr.Code)
}

// Tests for ReportService.MonthToDate
func TestReportService_MonthToDate_StartsOnTheFirst(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	start := day("2026-08-01")
	asOf := day("2026-08-15")

	summaryRepo.On("FindByDateRange", mock.Anything, propertyID, start, asOf).
		Return([]*cost.DailyFinancialSummary{}, nil)

	result, err := service.MonthToDate(grantedContext(), propertyID, "2026-08-15")

	assert.NoError(t, err)
	assert.Equal(t, "2026-08-01", result.DateFrom)
	assert.Equal(t, "2026-08-15", result.DateTo)
	assert.Equal(t, 0, result.Combined.Days)
	summaryRepo.AssertExpectations(t)
}

func TestReportService_YearToDate_StartsOnJanuaryFirst(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	start := day("2026-01-01")
	asOf := day("2026-08-15")

	first := createSummary(t, propertyID, day("2026-03-10"), 1000, 250)

	summaryRepo.On("FindByDateRange", mock.Anything, propertyID, start, asOf).
		Return([]*cost.DailyFinancialSummary{first}, nil)

	result, err := service.YearToDate(grantedContext(), propertyID, "2026-08-15")

	assert.NoError(t, err)
	assert.Equal(t, "2026-01-01", result.DateFrom)
	assert.True(t, decimal.NewFromFloat(250).Equal(result.Food.ActualCost))
	assert.True(t, decimal.NewFromFloat(25).Equal(result.Food.ActualCostPct))
	assert.True(t, decimal.NewFromFloat(100).Equal(result.Beverage.ActualCost))
	summaryRepo.AssertExpectations(t)
}

// Tests for ReportService.CostTrend
func TestReportService_CostTrend(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	from := day("2026-08-01")
	to := day("2026-08-05")

	totals := []cost.DailyTotal{
		{Date: day("2026-08-01"), Total: decimal.NewFromFloat(100)},
		{Date: day("2026-08-02"), Total: decimal.NewFromFloat(200)},
		{Date: day("2026-08-03"), Total: decimal.NewFromFloat(300)},
		{Date: day("2026-08-04"), Total: decimal.NewFromFloat(400)},
		{Date: day("2026-08-05"), Total: decimal.NewFromFloat(500)},
	}

	entryRepo.On("DailyTotals", mock.Anything, propertyID, cost.CostTypeFood, from, to).Return(totals, nil)

	result, err := service.CostTrend(grantedContext(), TrendQuery{
		PropertyID: propertyID.String(),
		Type:       "food",
		DateFrom:   "2026-08-01",
		DateTo:     "2026-08-05",
		Window:     3,
	})

	assert.NoError(t, err)
	assert.Equal(t, "rising", result.Direction)
	assert.Equal(t, 3, result.Window)
	assert.Len(t, result.Points, 5)
	// Third point averages 100, 200, 300
	assert.True(t, decimal.NewFromFloat(200).Equal(result.Points[2].MovingAverage))
	entryRepo.AssertExpectations(t)
}

func TestReportService_CostTrend_DefaultWindow(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	entryRepo.On("DailyTotals", mock.Anything, propertyID, cost.CostTypeBeverage, mock.Anything, mock.Anything).
		Return([]cost.DailyTotal{}, nil)

	result, err := service.CostTrend(grantedContext(), TrendQuery{
		PropertyID: propertyID.String(),
		Type:       "beverage",
		DateFrom:   "2026-08-01",
		DateTo:     "2026-08-05",
	})

	assert.NoError(t, err)
	assert.Equal(t, defaultTrendWindow, result.Window)
	assert.Equal(t, "flat", result.Direction)
}

// Tests for ReportService.ForecastCosts
func TestReportService_ForecastCosts(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()

	totals := make([]cost.DailyTotal, 0, 14)
	start := day("2026-08-01")
	for i := 0; i < 14; i++ {
		totals = append(totals, cost.DailyTotal{
			Date:  start.AddDate(0, 0, i),
			Total: decimal.NewFromFloat(100),
		})
	}

	entryRepo.On("DailyTotals", mock.Anything, propertyID, cost.CostTypeFood, mock.Anything, mock.Anything).
		Return(totals, nil)

	result, err := service.ForecastCosts(grantedContext(), ForecastQuery{
		PropertyID: propertyID.String(),
		Type:       "food",
		Horizon:    7,
	})

	assert.NoError(t, err)
	assert.Equal(t, 14, result.HistoryDays)
	assert.Equal(t, 7, result.Horizon)
	assert.Len(t, result.Points, 7)
	// A constant series projects itself
	assert.True(t, decimal.NewFromFloat(100).Equal(result.Points[0].Value))
	entryRepo.AssertExpectations(t)
}

func TestReportService_ForecastCosts_InsufficientHistory(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	entryRepo.On("DailyTotals", mock.Anything, propertyID, cost.CostTypeFood, mock.Anything, mock.Anything).
		Return([]cost.DailyTotal{{Date: day("2026-08-01"), Total: decimal.NewFromFloat(100)}}, nil)

	result, err := service.ForecastCosts(grantedContext(), ForecastQuery{
		PropertyID: propertyID.String(),
		Type:       "food",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_HISTORY", domainErr.Code)
}

// Tests for ReportService.ExportBudgetVsActualCSV
func TestReportService_ExportBudgetVsActualCSV(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, auditRepo := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	from := day("2026-08-01")
	to := day("2026-08-01")
	summary := createSummary(t, propertyID, from, 1000, 300)

	summaryRepo.On("FindByDateRange", mock.Anything, propertyID, from, to).
		Return([]*cost.DailyFinancialSummary{summary}, nil)

	var buf bytes.Buffer
	err := service.ExportBudgetVsActualCSV(grantedContext(), newTestTenantID(), propertyID, "2026-08-01", "2026-08-01", &buf)

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "date,actual_food_revenue"))
	assert.True(t, strings.HasPrefix(lines[1], "2026-08-01,1000"))
	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*audit.AuditLog"))
}

// Tests for ReportService.ExportMonthToDateCSV
func TestReportService_ExportMonthToDateCSV(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, auditRepo := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	start := day("2026-08-01")
	asOf := day("2026-08-15")
	summary := createSummary(t, propertyID, start, 1000, 300)

	summaryRepo.On("FindByDateRange", mock.Anything, propertyID, start, asOf).
		Return([]*cost.DailyFinancialSummary{summary}, nil)

	var buf bytes.Buffer
	err := service.ExportMonthToDateCSV(grantedContext(), newTestTenantID(), propertyID, "2026-08-15", &buf)

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// Header plus food, beverage and combined rows
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "segment,days"))
	assert.True(t, strings.HasPrefix(lines[1], "food,1,1000"))
	assert.True(t, strings.HasPrefix(lines[3], "combined,1,1500"))
	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*audit.AuditLog"))
}

// Tests for ReportService.ExportForecastCSV
func TestReportService_ExportForecastCSV(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, auditRepo := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	totals := make([]cost.DailyTotal, 0, 14)
	start := day("2026-08-01")
	for i := 0; i < 14; i++ {
		totals = append(totals, cost.DailyTotal{
			Date:  start.AddDate(0, 0, i),
			Total: decimal.NewFromFloat(100),
		})
	}
	entryRepo.On("DailyTotals", mock.Anything, propertyID, cost.CostTypeFood, mock.Anything, mock.Anything).
		Return(totals, nil)

	var buf bytes.Buffer
	err := service.ExportForecastCSV(grantedContext(), newTestTenantID(), ForecastQuery{
		PropertyID: propertyID.String(),
		Type:       "food",
		Horizon:    7,
	}, &buf)

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 8)
	assert.Equal(t, "date,value,confidence", lines[0])
	// A constant series projects itself
	assert.True(t, strings.HasSuffix(lines[1], ",100,0.98"), "got %s", lines[1])
	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*audit.AuditLog"))
}

// Tests for ReportService.ExportCostTrendCSV
func TestReportService_ExportCostTrendCSV(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, auditRepo := newReportService(summaryRepo, entryRepo)

	propertyID := newTestPropertyID()
	from := day("2026-08-01")
	to := day("2026-08-03")

	totals := []cost.DailyTotal{
		{Date: day("2026-08-01"), Total: decimal.NewFromFloat(100)},
		{Date: day("2026-08-02"), Total: decimal.NewFromFloat(200)},
		{Date: day("2026-08-03"), Total: decimal.NewFromFloat(300)},
	}
	entryRepo.On("DailyTotals", mock.Anything, propertyID, cost.CostTypeFood, from, to).Return(totals, nil)

	var buf bytes.Buffer
	err := service.ExportCostTrendCSV(grantedContext(), newTestTenantID(), TrendQuery{
		PropertyID: propertyID.String(),
		Type:       "food",
		DateFrom:   "2026-08-01",
		DateTo:     "2026-08-03",
		Window:     3,
	}, &buf)

	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "date,cost,moving_average", lines[0])
	// The third row carries the full three day average
	assert.Equal(t, "2026-08-03,300,200", lines[3])
	auditRepo.AssertCalled(t, "Create", mock.Anything, mock.AnythingOfType("*audit.AuditLog"))
}

// Property access enforcement
func TestReportService_BudgetVsActual_DeniedWithoutGrant(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	accessRepo := new(MockAccessRepository)
	accessRepo.On("FindByUserAndProperty", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	service, _ := newReportServiceWithGuard(summaryRepo, entryRepo, identityapp.NewAccessGuard(accessRepo, zap.NewNop()))

	_, err := service.BudgetVsActual(grantedContext(), newTestPropertyID(), "2026-08-01", "2026-08-02")

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROPERTY_ACCESS_DENIED", domainErr.Code)
	summaryRepo.AssertNotCalled(t, "FindByDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_ExportMonthToDateCSV_DeniedForDataEntryGrant(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, auditRepo := newReportServiceWithGuard(summaryRepo, entryRepo,
		newTestAccessGuard(identity.AccessLevelDataEntry))

	var buf bytes.Buffer
	err := service.ExportMonthToDateCSV(grantedContext(), newTestTenantID(), newTestPropertyID(), "2026-08-15", &buf)

	// Exports demand a manager grant, data entry is not enough
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROPERTY_ACCESS_DENIED", domainErr.Code)
	assert.Zero(t, buf.Len())
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReportService_CostTrend_AllowsReadOnlyGrant(t *testing.T) {
	summaryRepo := new(MockSummaryRepository)
	entryRepo := new(MockEntryRepository)
	service, _ := newReportServiceWithGuard(summaryRepo, entryRepo,
		newTestAccessGuard(identity.AccessLevelReadOnly))

	propertyID := newTestPropertyID()
	entryRepo.On("DailyTotals", mock.Anything, propertyID, cost.CostTypeFood, mock.Anything, mock.Anything).
		Return([]cost.DailyTotal{}, nil)

	result, err := service.CostTrend(grantedContext(), TrendQuery{
		PropertyID: propertyID.String(),
		Type:       "food",
		DateFrom:   "2026-08-01",
		DateTo:     "2026-08-05",
	})

	assert.NoError(t, err)
	assert.Equal(t, "flat", result.Direction)
}
