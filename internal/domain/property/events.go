package property

import (
	"github.com/fnbcost/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProperty = "Property"
)

// Property domain event types
const (
	EventTypePropertyCreated     = "PropertyCreated"
	EventTypePropertyDeactivated = "PropertyDeactivated"
)

// PropertyCreatedEvent is published when a property is created
type PropertyCreatedEvent struct {
	shared.BaseDomainEvent
	Name string       `json:"name"`
	Code string       `json:"code"`
	Type PropertyType `json:"type"`
}

// NewPropertyCreatedEvent creates a new PropertyCreatedEvent
func NewPropertyCreatedEvent(p *Property) *PropertyCreatedEvent {
	return &PropertyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyCreated, AggregateTypeProperty, p.ID, p.TenantID),
		Name:            p.Name,
		Code:            p.Code,
		Type:            p.Type,
	}
}

// PropertyDeactivatedEvent is published when a property is deactivated
type PropertyDeactivatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Code string `json:"code"`
}

// NewPropertyDeactivatedEvent creates a new PropertyDeactivatedEvent
func NewPropertyDeactivatedEvent(p *Property) *PropertyDeactivatedEvent {
	return &PropertyDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyDeactivated, AggregateTypeProperty, p.ID, p.TenantID),
		Name:            p.Name,
		Code:            p.Code,
	}
}
