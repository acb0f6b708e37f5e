package property

import (
	"strings"
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Outlet represents a revenue outlet within a property, such as a
// restaurant, bar, or banquet kitchen.
type Outlet struct {
	shared.TenantAggregateRoot
	PropertyID uuid.UUID
	Name       string
	Code       string
	IsActive   bool
}

// NewOutlet creates a new outlet under a property
func NewOutlet(tenantID, propertyID uuid.UUID, name, code string) (*Outlet, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}
	if err := validateOutletName(name); err != nil {
		return nil, err
	}
	if err := validatePropertyCode(code); err != nil {
		return nil, err
	}

	outlet := &Outlet{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PropertyID:          propertyID,
		Name:                strings.TrimSpace(name),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		IsActive:            true,
	}

	return outlet, nil
}

// SetName sets the outlet name
func (o *Outlet) SetName(name string) error {
	if err := validateOutletName(name); err != nil {
		return err
	}

	o.Name = strings.TrimSpace(name)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Activate activates the outlet
func (o *Outlet) Activate() error {
	if o.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Outlet is already active")
	}

	o.IsActive = true
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Deactivate deactivates the outlet
func (o *Outlet) Deactivate() error {
	if !o.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Outlet is already inactive")
	}

	o.IsActive = false
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

func validateOutletName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_OUTLET_NAME", "Outlet name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_OUTLET_NAME", "Outlet name cannot exceed 200 characters")
	}
	return nil
}
