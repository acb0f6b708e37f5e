package security

import (
	"context"
	"testing"
	"time"

	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

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

func testConfig() config.SecurityConfig {
	return config.SecurityConfig{
		BusinessStartHour:    6,
		BusinessEndHour:      22,
		BurstThreshold:       100,
		FailedLoginThreshold: 5,
	}
}

// Tests for Service.ActivityOverview
func TestSecurityService_ActivityOverview(t *testing.T) {
	repo := new(MockAuditRepository)
	service := NewService(repo, testConfig(), zap.NewNop())

	byAction := []audit.ActionCount{{Label: "create", Count: 40}, {Label: "delete", Count: 2}}
	byResource := []audit.ActionCount{{Label: "cost_entry", Count: 42}}
	byDay := []audit.ActionCount{{Label: "2026-08-01", Count: 42}}

	repo.On("CountByAction", mock.Anything, mock.Anything, mock.Anything).Return(byAction, nil)
	repo.On("CountByResource", mock.Anything, mock.Anything, mock.Anything).Return(byResource, nil)
	repo.On("CountByDay", mock.Anything, mock.Anything, mock.Anything).Return(byDay, nil)

	result, err := service.ActivityOverview(context.Background(), OverviewQuery{
		DateFrom: "2026-08-01",
		DateTo:   "2026-08-07",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), result.Total)
	assert.Equal(t, "2026-08-01", result.DateFrom)
	assert.Len(t, result.ByAction, 2)
	assert.Equal(t, "create", result.ByAction[0].Label)
	repo.AssertExpectations(t)
}

func TestSecurityService_ActivityOverview_RejectsInvertedRange(t *testing.T) {
	repo := new(MockAuditRepository)
	service := NewService(repo, testConfig(), zap.NewNop())

	_, err := service.ActivityOverview(context.Background(), OverviewQuery{
		DateFrom: "2026-08-07",
		DateTo:   "2026-08-01",
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "CountByAction", mock.Anything, mock.Anything, mock.Anything)
}

// Tests for Service.ThreatReport
func TestSecurityService_ThreatReport_ScoresAndSorts(t *testing.T) {
	repo := new(MockAuditRepository)
	service := NewService(repo, testConfig(), zap.NewNop())

	quiet := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	noisy := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	hour := time.Date(2026, 8, 3, 2, 0, 0, 0, time.UTC)

	activity := []audit.UserActivity{
		{UserID: quiet, Username: "alice", Total: 50, Deletions: 1},
		{UserID: noisy, Username: "mallory", Total: 400, Deletions: 4, FailedLogins: 3, AfterHours: 10},
	}
	hourly := []audit.HourlyCount{
		{UserID: noisy, Hour: hour, Count: 150},
		{UserID: quiet, Hour: hour, Count: 20},
	}
	clusters := []audit.FailedLoginCluster{
		{Username: "mallory", IPAddress: "203.0.113.9", Count: 6, FirstSeen: hour, LastSeen: hour.Add(10 * time.Minute)},
	}

	repo.On("UserActivity", mock.Anything, mock.Anything, mock.Anything, 6, 22).Return(activity, nil)
	repo.On("HourlyCounts", mock.Anything, mock.Anything, mock.Anything).Return(hourly, nil)
	repo.On("FailedLoginClusters", mock.Anything, mock.Anything, mock.Anything, int64(5)).Return(clusters, nil)

	result, err := service.ThreatReport(context.Background(), OverviewQuery{})

	assert.NoError(t, err)
	assert.Len(t, result.UserRisks, 2)

	top := result.UserRisks[0]
	assert.Equal(t, "mallory", top.Username)
	// 4 deletions, 3 failed logins, 10 after hours, 1 burst
	assert.Equal(t, 4*weightDeletion+3*weightFailedLogin+10*weightAfterHours+1*weightBurst, top.Score)
	assert.Equal(t, RiskCritical, top.Band)
	assert.Equal(t, int64(1), top.Bursts)

	low := result.UserRisks[1]
	assert.Equal(t, "alice", low.Username)
	assert.Equal(t, 1*weightDeletion, low.Score)
	assert.Equal(t, RiskLow, low.Band)

	// Only the hour over the threshold surfaces as a burst
	assert.Len(t, result.Bursts, 1)
	assert.Equal(t, noisy, result.Bursts[0].UserID)

	assert.Len(t, result.FailedLogins, 1)
	assert.Equal(t, "203.0.113.9", result.FailedLogins[0].IPAddress)
	repo.AssertExpectations(t)
}

func TestSecurityService_ThreatReport_ScoreSaturatesAt100(t *testing.T) {
	repo := new(MockAuditRepository)
	service := NewService(repo, testConfig(), zap.NewNop())

	user := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	activity := []audit.UserActivity{
		{UserID: user, Username: "rogue", Total: 5000, Deletions: 100, FailedLogins: 50},
	}

	repo.On("UserActivity", mock.Anything, mock.Anything, mock.Anything, 6, 22).Return(activity, nil)
	repo.On("HourlyCounts", mock.Anything, mock.Anything, mock.Anything).Return([]audit.HourlyCount{}, nil)
	repo.On("FailedLoginClusters", mock.Anything, mock.Anything, mock.Anything, int64(5)).Return([]audit.FailedLoginCluster{}, nil)

	result, err := service.ThreatReport(context.Background(), OverviewQuery{})

	assert.NoError(t, err)
	assert.Equal(t, 100, result.UserRisks[0].Score)
	assert.Equal(t, RiskCritical, result.UserRisks[0].Band)
}

func TestRiskBand(t *testing.T) {
	assert.Equal(t, RiskLow, riskBand(0))
	assert.Equal(t, RiskLow, riskBand(24))
	assert.Equal(t, RiskMedium, riskBand(25))
	assert.Equal(t, RiskHigh, riskBand(50))
	assert.Equal(t, RiskCritical, riskBand(75))
	assert.Equal(t, RiskCritical, riskBand(100))
}
