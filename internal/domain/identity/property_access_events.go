package identity

import (
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for PropertyAccess
const AggregateTypePropertyAccess = "PropertyAccess"

// PropertyAccess domain event types
const (
	EventTypePropertyAccessGranted      = "PropertyAccessGranted"
	EventTypePropertyAccessRevoked      = "PropertyAccessRevoked"
	EventTypePropertyAccessLevelChanged = "PropertyAccessLevelChanged"
)

// PropertyAccessGrantedEvent is published when access to a property is granted
type PropertyAccessGrantedEvent struct {
	shared.BaseDomainEvent
	UserID     uuid.UUID   `json:"user_id"`
	PropertyID uuid.UUID   `json:"property_id"`
	Level      AccessLevel `json:"level"`
}

// NewPropertyAccessGrantedEvent creates a new PropertyAccessGrantedEvent
func NewPropertyAccessGrantedEvent(access *PropertyAccess) *PropertyAccessGrantedEvent {
	return &PropertyAccessGrantedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyAccessGranted, AggregateTypePropertyAccess, access.ID, access.TenantID),
		UserID:          access.UserID,
		PropertyID:      access.PropertyID,
		Level:           access.Level,
	}
}

// PropertyAccessRevokedEvent is published when access to a property is revoked
type PropertyAccessRevokedEvent struct {
	shared.BaseDomainEvent
	UserID     uuid.UUID `json:"user_id"`
	PropertyID uuid.UUID `json:"property_id"`
}

// NewPropertyAccessRevokedEvent creates a new PropertyAccessRevokedEvent
func NewPropertyAccessRevokedEvent(access *PropertyAccess) *PropertyAccessRevokedEvent {
	return &PropertyAccessRevokedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyAccessRevoked, AggregateTypePropertyAccess, access.ID, access.TenantID),
		UserID:          access.UserID,
		PropertyID:      access.PropertyID,
	}
}

// PropertyAccessLevelChangedEvent is published when an access level changes
type PropertyAccessLevelChangedEvent struct {
	shared.BaseDomainEvent
	UserID     uuid.UUID   `json:"user_id"`
	PropertyID uuid.UUID   `json:"property_id"`
	OldLevel   AccessLevel `json:"old_level"`
	NewLevel   AccessLevel `json:"new_level"`
}

// NewPropertyAccessLevelChangedEvent creates a new PropertyAccessLevelChangedEvent
func NewPropertyAccessLevelChangedEvent(access *PropertyAccess, oldLevel, newLevel AccessLevel) *PropertyAccessLevelChangedEvent {
	return &PropertyAccessLevelChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePropertyAccessLevelChanged, AggregateTypePropertyAccess, access.ID, access.TenantID),
		UserID:          access.UserID,
		PropertyID:      access.PropertyID,
		OldLevel:        oldLevel,
		NewLevel:        newLevel,
	}
}
