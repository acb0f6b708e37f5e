package cost

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostType separates food and beverage entries
type CostType string

const (
	CostTypeFood     CostType = "food"
	CostTypeBeverage CostType = "beverage"
)

// IsValid checks if the cost type is known
func (t CostType) IsValid() bool {
	return t == CostTypeFood || t == CostTypeBeverage
}

// String returns the string representation of CostType
func (t CostType) String() string {
	return string(t)
}

// CostDetail is a single category line on a daily cost entry
type CostDetail struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description"`
}

// CostEntry records the costs booked against a property for one day.
// One entry exists per property, type, and date; its total always equals
// the sum of its detail lines.
type CostEntry struct {
	shared.TenantAggregateRoot
	PropertyID uuid.UUID
	OutletID   *uuid.UUID
	Type       CostType
	EntryDate  time.Time // Date only, normalized to midnight UTC
	Total      decimal.Decimal
	Details    []CostDetail
	Notes      string
}

// NewFoodCostEntry creates a new daily food cost entry
func NewFoodCostEntry(tenantID, propertyID uuid.UUID, entryDate time.Time) (*CostEntry, error) {
	return newCostEntry(tenantID, propertyID, CostTypeFood, entryDate)
}

// NewBeverageCostEntry creates a new daily beverage cost entry
func NewBeverageCostEntry(tenantID, propertyID uuid.UUID, entryDate time.Time) (*CostEntry, error) {
	return newCostEntry(tenantID, propertyID, CostTypeBeverage, entryDate)
}

func newCostEntry(tenantID, propertyID uuid.UUID, costType CostType, entryDate time.Time) (*CostEntry, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}
	if !costType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COST_TYPE", "Cost type must be food or beverage")
	}

	day, err := normalizeEntryDate(entryDate)
	if err != nil {
		return nil, err
	}

	entry := &CostEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          propertyID,
		Type:                costType,
		EntryDate:           day,
		Total:               decimal.Zero,
		Details:             make([]CostDetail, 0),
	}

	entry.AddDomainEvent(NewCostEntryCreatedEvent(entry))

	return entry, nil
}

// SetOutlet attributes the entry to a specific outlet
func (e *CostEntry) SetOutlet(outletID uuid.UUID) error {
	if outletID == uuid.Nil {
		return shared.NewDomainError("INVALID_OUTLET_ID", "Outlet ID cannot be empty")
	}

	e.OutletID = &outletID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// ClearOutlet removes the outlet attribution
func (e *CostEntry) ClearOutlet() {
	e.OutletID = nil
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// SetNotes sets free-form notes on the entry
func (e *CostEntry) SetNotes(notes string) error {
	if len(notes) > 1000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}

	e.Notes = notes
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// AddDetail appends a category line and recomputes the total
func (e *CostEntry) AddDetail(categoryID uuid.UUID, amount decimal.Decimal, description string) error {
	if err := validateDetail(categoryID, amount, description); err != nil {
		return err
	}

	e.Details = append(e.Details, CostDetail{
		ID:          uuid.New(),
		CategoryID:  categoryID,
		Cost:        amount,
		Description: description,
	})
	e.recomputeTotal()

	return nil
}

// RemoveDetail removes a category line and recomputes the total
func (e *CostEntry) RemoveDetail(detailID uuid.UUID) error {
	found := false
	newDetails := make([]CostDetail, 0, len(e.Details))
	for _, d := range e.Details {
		if d.ID != detailID {
			newDetails = append(newDetails, d)
		} else {
			found = true
		}
	}

	if !found {
		return shared.NewDomainError("DETAIL_NOT_FOUND", "Entry does not contain this detail line")
	}

	e.Details = newDetails
	e.recomputeTotal()

	return nil
}

// SetDetails replaces all detail lines and recomputes the total
func (e *CostEntry) SetDetails(details []CostDetail) error {
	for _, d := range details {
		if err := validateDetail(d.CategoryID, d.Cost, d.Description); err != nil {
			return err
		}
	}

	normalized := make([]CostDetail, len(details))
	copy(normalized, details)
	for i := range normalized {
		if normalized[i].ID == uuid.Nil {
			normalized[i].ID = uuid.New()
		}
	}

	e.Details = normalized
	e.recomputeTotal()

	return nil
}

// DetailTotal returns the sum of all detail lines
func (e *CostEntry) DetailTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range e.Details {
		total = total.Add(d.Cost)
	}
	return total
}

// CostForCategory returns the summed cost of lines for one category
func (e *CostEntry) CostForCategory(categoryID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, d := range e.Details {
		if d.CategoryID == categoryID {
			total = total.Add(d.Cost)
		}
	}
	return total
}

// HasCategory reports whether the entry has a line for the category
func (e *CostEntry) HasCategory(categoryID uuid.UUID) bool {
	for _, d := range e.Details {
		if d.CategoryID == categoryID {
			return true
		}
	}
	return false
}

func (e *CostEntry) recomputeTotal() {
	e.Total = e.DetailTotal()
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewCostEntryUpdatedEvent(e))
}

func validateDetail(categoryID uuid.UUID, amount decimal.Decimal, description string) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY_ID", "Category ID cannot be empty")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Cost cannot be negative")
	}
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return nil
}

// normalizeEntryDate truncates the date to midnight UTC and rejects future dates
func normalizeEntryDate(entryDate time.Time) (time.Time, error) {
	if entryDate.IsZero() {
		return time.Time{}, shared.NewDomainError("INVALID_ENTRY_DATE", "Entry date cannot be empty")
	}

	day := DateOnly(entryDate)
	today := DateOnly(time.Now())
	if day.After(today) {
		return time.Time{}, shared.NewDomainError("FUTURE_ENTRY_DATE", "Entry date cannot be in the future")
	}

	return day, nil
}

// DateOnly truncates a timestamp to midnight UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
