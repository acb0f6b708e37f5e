package cost

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeCostEntry = "CostEntry"
	AggregateTypeSummary   = "DailyFinancialSummary"
)

// Cost domain event types
const (
	EventTypeCostEntryCreated = "CostEntryCreated"
	EventTypeCostEntryUpdated = "CostEntryUpdated"
	EventTypeSummaryCreated   = "DailyFinancialSummaryCreated"
)

// CostEntryCreatedEvent is published when a daily cost entry is created
type CostEntryCreatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID `json:"property_id"`
	CostType   CostType  `json:"cost_type"`
	EntryDate  time.Time `json:"entry_date"`
}

// NewCostEntryCreatedEvent creates a new CostEntryCreatedEvent
func NewCostEntryCreatedEvent(entry *CostEntry) *CostEntryCreatedEvent {
	return &CostEntryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCostEntryCreated, AggregateTypeCostEntry, entry.ID, entry.TenantID),
		PropertyID:      entry.PropertyID,
		CostType:        entry.Type,
		EntryDate:       entry.EntryDate,
	}
}

// CostEntryUpdatedEvent is published when an entry's detail lines change
type CostEntryUpdatedEvent struct {
	shared.BaseDomainEvent
	PropertyID uuid.UUID       `json:"property_id"`
	CostType   CostType        `json:"cost_type"`
	EntryDate  time.Time       `json:"entry_date"`
	Total      decimal.Decimal `json:"total"`
}

// NewCostEntryUpdatedEvent creates a new CostEntryUpdatedEvent
func NewCostEntryUpdatedEvent(entry *CostEntry) *CostEntryUpdatedEvent {
	return &CostEntryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCostEntryUpdated, AggregateTypeCostEntry, entry.ID, entry.TenantID),
		PropertyID:      entry.PropertyID,
		CostType:        entry.Type,
		EntryDate:       entry.EntryDate,
		Total:           entry.Total,
	}
}

// SummaryCreatedEvent is published when a daily summary is created
type SummaryCreatedEvent struct {
	shared.BaseDomainEvent
	PropertyID  uuid.UUID `json:"property_id"`
	SummaryDate time.Time `json:"summary_date"`
}

// NewSummaryCreatedEvent creates a new SummaryCreatedEvent
func NewSummaryCreatedEvent(summary *DailyFinancialSummary) *SummaryCreatedEvent {
	return &SummaryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSummaryCreated, AggregateTypeSummary, summary.ID, summary.TenantID),
		PropertyID:      summary.PropertyID,
		SummaryDate:     summary.SummaryDate,
	}
}
