package persistence

import (
	"context"
	"time"

	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository persists audit records through GORM. The aggregate
// queries back the security intelligence dashboards.
type GormAuditLogRepository struct {
	db *gorm.DB
}

var _ audit.Repository = (*GormAuditLogRepository)(nil)

func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Create appends one audit record. Records are never updated afterwards.
func (r *GormAuditLogRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	return r.db.WithContext(ctx).Create(models.AuditLogModelFromDomain(log)).Error
}

func (r *GormAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	var model models.AuditLogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns the filtered page of records together with the unpaged
// total.
func (r *GormAuditLogRepository) FindAll(ctx context.Context, filter audit.Filter) ([]*audit.AuditLog, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AuditLogModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logModels []models.AuditLogModel
	// The id tie-break keeps page boundaries stable when many rows share a
	// created_at timestamp
	if err := query.
		Order(OrderClause(filter.SortBy, filter.SortOrder, AuditLogSortFields, "created_at")).
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&logModels).Error; err != nil {
		return nil, 0, err
	}

	logs := make([]*audit.AuditLog, len(logModels))
	for i := range logModels {
		logs[i] = logModels[i].ToDomain()
	}
	return logs, total, nil
}

// CountByAction returns row counts grouped by action over a window
func (r *GormAuditLogRepository) CountByAction(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	return r.countByColumn(ctx, "action", from, to)
}

// CountByResource returns row counts grouped by resource over a window
func (r *GormAuditLogRepository) CountByResource(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	return r.countByColumn(ctx, "resource", from, to)
}

// CountByDay returns row counts grouped by calendar day over a window
func (r *GormAuditLogRepository) CountByDay(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	var rows []struct {
		Label string
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AuditLogModel{}).
		Select("TO_CHAR(date_trunc('day', created_at), 'YYYY-MM-DD') AS label, COUNT(*) AS count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("date_trunc('day', created_at)").
		Order("label ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]audit.ActionCount, len(rows))
	for i, row := range rows {
		counts[i] = audit.ActionCount{Label: row.Label, Count: row.Count}
	}
	return counts, nil
}

// UserActivity returns per-user aggregates over a window. Rows whose
// hour-of-day falls outside [startHour, endHour) count as after-hours.
func (r *GormAuditLogRepository) UserActivity(ctx context.Context, from, to time.Time, startHour, endHour int) ([]audit.UserActivity, error) {
	var rows []struct {
		UserID       uuid.UUID
		Username     string
		Total        int64
		Deletions    int64
		FailedLogins int64
		AfterHours   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AuditLogModel{}).
		Select(`user_id, username,
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE action = ?) AS deletions,
			COUNT(*) FILTER (WHERE action = ?) AS failed_logins,
			COUNT(*) FILTER (WHERE EXTRACT(HOUR FROM created_at) < ? OR EXTRACT(HOUR FROM created_at) >= ?) AS after_hours`,
			audit.ActionDelete, audit.ActionLoginFailed, startHour, endHour).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("user_id IS NOT NULL").
		Group("user_id, username").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	activity := make([]audit.UserActivity, len(rows))
	for i, row := range rows {
		activity[i] = audit.UserActivity{
			UserID:       row.UserID,
			Username:     row.Username,
			Total:        row.Total,
			Deletions:    row.Deletions,
			FailedLogins: row.FailedLogins,
			AfterHours:   row.AfterHours,
		}
	}
	return activity, nil
}

// HourlyCounts returns per-user per-hour row counts over a window
func (r *GormAuditLogRepository) HourlyCounts(ctx context.Context, from, to time.Time) ([]audit.HourlyCount, error) {
	var rows []struct {
		UserID uuid.UUID
		Hour   time.Time
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AuditLogModel{}).
		Select("user_id, date_trunc('hour', created_at) AS hour, COUNT(*) AS count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("user_id IS NOT NULL").
		Group("user_id, date_trunc('hour', created_at)").
		Order("hour ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]audit.HourlyCount, len(rows))
	for i, row := range rows {
		counts[i] = audit.HourlyCount{
			UserID: row.UserID,
			Hour:   row.Hour,
			Count:  row.Count,
		}
	}
	return counts, nil
}

// FailedLoginClusters groups failed logins by username and source IP
func (r *GormAuditLogRepository) FailedLoginClusters(ctx context.Context, from, to time.Time, minCount int64) ([]audit.FailedLoginCluster, error) {
	var rows []struct {
		Username  string
		IPAddress string
		Count     int64
		FirstSeen time.Time
		LastSeen  time.Time
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AuditLogModel{}).
		Select("username, ip_address, COUNT(*) AS count, MIN(created_at) AS first_seen, MAX(created_at) AS last_seen").
		Where("action = ?", audit.ActionLoginFailed).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("username, ip_address").
		Having("COUNT(*) >= ?", minCount).
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	clusters := make([]audit.FailedLoginCluster, len(rows))
	for i, row := range rows {
		clusters[i] = audit.FailedLoginCluster{
			Username:  row.Username,
			IPAddress: row.IPAddress,
			Count:     row.Count,
			FirstSeen: row.FirstSeen,
			LastSeen:  row.LastSeen,
		}
	}
	return clusters, nil
}

func (r *GormAuditLogRepository) countByColumn(ctx context.Context, column string, from, to time.Time) ([]audit.ActionCount, error) {
	var rows []struct {
		Label string
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.AuditLogModel{}).
		Select(column+" AS label, COUNT(*) AS count").
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group(column).
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]audit.ActionCount, len(rows))
	for i, row := range rows {
		counts[i] = audit.ActionCount{Label: row.Label, Count: row.Count}
	}
	return counts, nil
}

func (r *GormAuditLogRepository) applyFilter(query *gorm.DB, filter audit.Filter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("username ILIKE ? OR resource_id ILIKE ? OR details::text ILIKE ?",
			pattern, pattern, pattern)
	}
	return query
}
