package identity

import (
	"github.com/fnbcost/backend/internal/domain/shared"
)

const AggregateTypeRole = "Role"

const EventTypeRoleCreated = "RoleCreated"

// RoleCreatedEvent is raised when a role is added to the tenant. Later role
// changes surface through the audit log rather than domain events.
type RoleCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

func NewRoleCreatedEvent(role *Role) *RoleCreatedEvent {
	return &RoleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRoleCreated, AggregateTypeRole, role.ID, role.TenantID),
		Code:            role.Code,
		Name:            role.Name,
	}
}
