package cost

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryFilter contains filter options for querying cost entries
type EntryFilter struct {
	PropertyID *uuid.UUID
	OutletID   *uuid.UUID
	Type       *CostType
	DateFrom   *time.Time
	DateTo     *time.Time

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewEntryFilter creates a filter with default values
func NewEntryFilter() EntryFilter {
	return EntryFilter{
		Page:      1,
		PageSize:  31,
		SortBy:    "entry_date",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f EntryFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f EntryFilter) Limit() int {
	if f.PageSize <= 0 {
		return 31
	}
	if f.PageSize > 400 {
		return 400
	}
	return f.PageSize
}

// DailyTotal pairs a date with a summed cost, used by report queries
type DailyTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

// EntryRepository defines the interface for cost entry persistence
type EntryRepository interface {
	Create(ctx context.Context, entry *CostEntry) error
	Update(ctx context.Context, entry *CostEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*CostEntry, error)

	// FindByPropertyAndDate returns the entry of the given type for one day
	FindByPropertyAndDate(ctx context.Context, propertyID uuid.UUID, costType CostType, date time.Time) (*CostEntry, error)

	// FindAll returns entries matching the filter with pagination
	FindAll(ctx context.Context, filter EntryFilter) ([]*CostEntry, int64, error)

	// DailyTotals returns per-day cost totals over an inclusive date range
	DailyTotals(ctx context.Context, propertyID uuid.UUID, costType CostType, from, to time.Time) ([]DailyTotal, error)

	// CategoryInUse reports whether any detail line references the category
	CategoryInUse(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

// SummaryRepository defines the interface for daily summary persistence
type SummaryRepository interface {
	Create(ctx context.Context, summary *DailyFinancialSummary) error
	Update(ctx context.Context, summary *DailyFinancialSummary) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*DailyFinancialSummary, error)

	// FindByPropertyAndDate returns the summary for one day
	FindByPropertyAndDate(ctx context.Context, propertyID uuid.UUID, date time.Time) (*DailyFinancialSummary, error)

	// FindByDateRange returns summaries over an inclusive range, ordered by date
	FindByDateRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]*DailyFinancialSummary, error)

	// FindAll returns summaries matching the filter with pagination
	FindAll(ctx context.Context, filter EntryFilter) ([]*DailyFinancialSummary, int64, error)
}
