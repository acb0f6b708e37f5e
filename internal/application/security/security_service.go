package security

import (
	"context"
	"sort"
	"time"

	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/fnbcost/backend/internal/infrastructure/config"
	"github.com/fnbcost/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default window when the caller gives no range
const defaultWindowDays = 7

// Risk score weights. The score saturates at 100.
const (
	weightDeletion    = 5
	weightFailedLogin = 10
	weightAfterHours  = 3
	weightBurst       = 15
)

// Service derives heuristic security signals from the audit trail. All of
// it is descriptive; nothing here blocks a user.
type Service struct {
	repo   audit.Repository
	config config.SecurityConfig
	logger *zap.Logger
}

// NewService creates a new security Service
func NewService(repo audit.Repository, cfg config.SecurityConfig, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		config: cfg,
		logger: logger,
	}
}

// ActivityOverview aggregates the audit trail by action, resource and day
func (s *Service) ActivityOverview(ctx context.Context, query OverviewQuery) (*ActivityOverview, error) {
	from, to, err := resolveWindow(query)
	if err != nil {
		return nil, err
	}

	byAction, err := s.repo.CountByAction(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byResource, err := s.repo.CountByResource(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byDay, err := s.repo.CountByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}

	overview := &ActivityOverview{
		DateFrom:   from.Format("2006-01-02"),
		DateTo:     to.Format("2006-01-02"),
		ByAction:   toBuckets(byAction),
		ByResource: toBuckets(byResource),
		ByDay:      toBuckets(byDay),
	}
	for _, bucket := range byAction {
		overview.Total += bucket.Count
	}

	return overview, nil
}

// ThreatReport scores per-user behavior and collects burst and failed
// login signals over the window
func (s *Service) ThreatReport(ctx context.Context, query OverviewQuery) (report *ThreatReport, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "security", "threat_report")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	from, to, err := resolveWindow(query)
	if err != nil {
		return nil, err
	}

	activity, err := s.repo.UserActivity(ctx, from, to, s.config.BusinessStartHour, s.config.BusinessEndHour)
	if err != nil {
		return nil, err
	}

	hourly, err := s.repo.HourlyCounts(ctx, from, to)
	if err != nil {
		return nil, err
	}

	clusters, err := s.repo.FailedLoginClusters(ctx, from, to, s.config.FailedLoginThreshold)
	if err != nil {
		return nil, err
	}

	bursts := make([]BurstSignal, 0)
	burstsByUser := make(map[uuid.UUID]int64)
	for _, h := range hourly {
		if h.Count < s.config.BurstThreshold {
			continue
		}
		bursts = append(bursts, BurstSignal{UserID: h.UserID, Hour: h.Hour, Count: h.Count})
		burstsByUser[h.UserID]++
	}

	risks := make([]UserRisk, 0, len(activity))
	for _, a := range activity {
		risk := UserRisk{
			UserID:       a.UserID,
			Username:     a.Username,
			Total:        a.Total,
			Deletions:    a.Deletions,
			FailedLogins: a.FailedLogins,
			AfterHours:   a.AfterHours,
			Bursts:       burstsByUser[a.UserID],
		}
		risk.Score = scoreRisk(risk)
		risk.Band = riskBand(risk.Score)
		risks = append(risks, risk)
	}

	// Highest risk first, ties broken by activity volume
	sort.Slice(risks, func(i, j int) bool {
		if risks[i].Score != risks[j].Score {
			return risks[i].Score > risks[j].Score
		}
		return risks[i].Total > risks[j].Total
	})

	signals := make([]FailedLoginSignal, len(clusters))
	for i, c := range clusters {
		signals[i] = FailedLoginSignal{
			Username:  c.Username,
			IPAddress: c.IPAddress,
			Count:     c.Count,
			FirstSeen: c.FirstSeen,
			LastSeen:  c.LastSeen,
		}
	}

	telemetry.SetAttribute(span, "security.users_scored", len(risks))
	telemetry.SetOK(span)

	return &ThreatReport{
		DateFrom:     from.Format("2006-01-02"),
		DateTo:       to.Format("2006-01-02"),
		UserRisks:    risks,
		Bursts:       bursts,
		FailedLogins: signals,
	}, nil
}

// scoreRisk maps a user's window aggregates to a 0-100 score
func scoreRisk(risk UserRisk) int {
	score := risk.Deletions*weightDeletion +
		risk.FailedLogins*weightFailedLogin +
		risk.AfterHours*weightAfterHours +
		risk.Bursts*weightBurst
	if score > 100 {
		return 100
	}
	return int(score)
}

// riskBand maps a score to its band
func riskBand(score int) string {
	switch {
	case score < 25:
		return RiskLow
	case score < 50:
		return RiskMedium
	case score < 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}

func toBuckets(counts []audit.ActionCount) []CountBucket {
	buckets := make([]CountBucket, len(counts))
	for i, c := range counts {
		buckets[i] = CountBucket{Label: c.Label, Count: c.Count}
	}
	return buckets
}

// resolveWindow parses the range, defaulting to the trailing week. The end
// day is included in full.
func resolveWindow(query OverviewQuery) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	to := now
	from := now.AddDate(0, 0, -defaultWindowDays)

	if query.DateFrom != "" {
		parsed, err := time.ParseInLocation("2006-01-02", query.DateFrom, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
		}
		from = parsed
	}
	if query.DateTo != "" {
		parsed, err := time.ParseInLocation("2006-01-02", query.DateTo, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}

	return from, to, nil
}
