package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter contains filter options for querying audit logs
type Filter struct {
	UserID     *uuid.UUID
	PropertyID *uuid.UUID
	Action     string
	Resource   string
	DateFrom   *time.Time
	DateTo     *time.Time
	Keyword    string

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewFilter creates a filter with default values
func NewFilter() Filter {
	return Filter{
		Page:      1,
		PageSize:  50,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f Filter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f Filter) Limit() int {
	if f.PageSize <= 0 {
		return 50
	}
	if f.PageSize > 500 {
		return 500
	}
	return f.PageSize
}

// ActionCount pairs a label with the number of rows carrying it
type ActionCount struct {
	Label string
	Count int64
}

// UserActivity aggregates one user's rows in a window
type UserActivity struct {
	UserID       uuid.UUID
	Username     string
	Total        int64
	Deletions    int64
	FailedLogins int64
	AfterHours   int64
}

// HourlyCount pairs an hour bucket with a row count for one user
type HourlyCount struct {
	UserID uuid.UUID
	Hour   time.Time
	Count  int64
}

// FailedLoginCluster groups failed logins by user and source address
type FailedLoginCluster struct {
	Username  string
	IPAddress string
	Count     int64
	FirstSeen time.Time
	LastSeen  time.Time
}

// Repository defines the interface for audit log persistence.
// Records are append-only; there is no update.
type Repository interface {
	// Create appends a record
	Create(ctx context.Context, log *AuditLog) error

	// FindByID finds a record by ID
	FindByID(ctx context.Context, id uuid.UUID) (*AuditLog, error)

	// FindAll returns records matching the filter with pagination
	FindAll(ctx context.Context, filter Filter) ([]*AuditLog, int64, error)

	// CountByAction returns row counts grouped by action over a window
	CountByAction(ctx context.Context, from, to time.Time) ([]ActionCount, error)

	// CountByResource returns row counts grouped by resource over a window
	CountByResource(ctx context.Context, from, to time.Time) ([]ActionCount, error)

	// CountByDay returns row counts grouped by calendar day over a window
	CountByDay(ctx context.Context, from, to time.Time) ([]ActionCount, error)

	// UserActivity returns per-user aggregates over a window. Rows between
	// startHour and endHour (local hour-of-day, exclusive band) count as
	// after-hours.
	UserActivity(ctx context.Context, from, to time.Time, startHour, endHour int) ([]UserActivity, error)

	// HourlyCounts returns per-user per-hour row counts over a window
	HourlyCounts(ctx context.Context, from, to time.Time) ([]HourlyCount, error)

	// FailedLoginClusters groups failed logins by username and IP
	FailedLoginClusters(ctx context.Context, from, to time.Time, minCount int64) ([]FailedLoginCluster, error)
}
