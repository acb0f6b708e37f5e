package property

import (
	"regexp"
	"strings"
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PropertyType represents the kind of property
type PropertyType string

const (
	PropertyTypeHotel      PropertyType = "hotel"
	PropertyTypeRestaurant PropertyType = "restaurant"
)

// Property represents a hotel or restaurant whose costs are tracked.
// It is the aggregate root for property operations.
type Property struct {
	shared.TenantAggregateRoot
	Name     string
	Code     string
	Type     PropertyType
	Currency string // ISO 4217 code
	TimeZone string // IANA zone name, used for after-hours calculations
	Address  string
	IsActive bool
}

// NewProperty creates a new property
func NewProperty(tenantID uuid.UUID, name, code string, propertyType PropertyType) (*Property, error) {
	if err := validatePropertyName(name); err != nil {
		return nil, err
	}
	if err := validatePropertyCode(code); err != nil {
		return nil, err
	}
	if err := validatePropertyType(propertyType); err != nil {
		return nil, err
	}

	property := &Property{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Type:                propertyType,
		Currency:            "USD",
		IsActive:            true,
	}

	property.AddDomainEvent(NewPropertyCreatedEvent(property))

	return property, nil
}

// SetName sets the property name
func (p *Property) SetName(name string) error {
	if err := validatePropertyName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCurrency sets the property currency
func (p *Property) SetCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !regexp.MustCompile(`^[A-Z]{3}$`).MatchString(currency) {
		return shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	p.Currency = currency
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetTimeZone sets the property time zone
func (p *Property) SetTimeZone(tz string) error {
	tz = strings.TrimSpace(tz)
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return shared.NewDomainError("INVALID_TIMEZONE", "Unknown time zone name")
		}
	}

	p.TimeZone = tz
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetAddress sets the property address
func (p *Property) SetAddress(address string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	p.Address = strings.TrimSpace(address)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Location returns the property's time.Location, defaulting to UTC
func (p *Property) Location() *time.Location {
	if p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Activate activates the property
func (p *Property) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Property is already active")
	}

	p.IsActive = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate deactivates the property
func (p *Property) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Property is already inactive")
	}

	p.IsActive = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewPropertyDeactivatedEvent(p))

	return nil
}

// Update updates the property's basic information
func (p *Property) Update(name, address string) error {
	if err := p.SetName(name); err != nil {
		return err
	}
	return p.SetAddress(address)
}

// Validation functions

func validatePropertyName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PROPERTY_NAME", "Property name cannot exceed 200 characters")
	}
	return nil
}

func validatePropertyCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_PROPERTY_CODE", "Property code cannot be empty")
	}
	if len(code) < 2 {
		return shared.NewDomainError("INVALID_PROPERTY_CODE", "Property code must be at least 2 characters")
	}
	if len(code) > 20 {
		return shared.NewDomainError("INVALID_PROPERTY_CODE", "Property code cannot exceed 20 characters")
	}

	codeRegex := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_\-]*$`)
	if !codeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_PROPERTY_CODE", "Property code must start with a letter and contain only letters, numbers, underscores, and hyphens")
	}

	return nil
}

func validatePropertyType(propertyType PropertyType) error {
	switch propertyType {
	case PropertyTypeHotel, PropertyTypeRestaurant:
		return nil
	default:
		return shared.NewDomainError("INVALID_PROPERTY_TYPE", "Property type must be hotel or restaurant")
	}
}
