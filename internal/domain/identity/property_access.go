package identity

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccessLevel represents the level of access a user has to a property
type AccessLevel string

const (
	AccessLevelReadOnly  AccessLevel = "read_only"  // View reports and entries
	AccessLevelDataEntry AccessLevel = "data_entry" // Create and edit daily entries
	AccessLevelManager   AccessLevel = "manager"    // Data entry plus budgets and exports
	AccessLevelAdmin     AccessLevel = "admin"      // Full property administration
)

// accessRank orders access levels from weakest to strongest
var accessRank = map[AccessLevel]int{
	AccessLevelReadOnly:  1,
	AccessLevelDataEntry: 2,
	AccessLevelManager:   3,
	AccessLevelAdmin:     4,
}

// PropertyAccess grants a user a level of access to a single property.
// It is the aggregate root for property permission operations.
type PropertyAccess struct {
	shared.TenantAggregateRoot
	UserID     uuid.UUID
	PropertyID uuid.UUID
	Level      AccessLevel
	GrantedBy  *uuid.UUID
	ExpiresAt  *time.Time
	IsActive   bool
}

// NewPropertyAccess creates a new access grant for a user on a property
func NewPropertyAccess(tenantID, userID, propertyID uuid.UUID, level AccessLevel) (*PropertyAccess, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID cannot be empty")
	}
	if err := validateAccessLevel(level); err != nil {
		return nil, err
	}

	access := &PropertyAccess{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		PropertyID:          propertyID,
		Level:               level,
		IsActive:            true,
	}

	access.AddDomainEvent(NewPropertyAccessGrantedEvent(access))

	return access, nil
}

// SetGrantedBy records who granted this access
func (a *PropertyAccess) SetGrantedBy(userID uuid.UUID) {
	a.GrantedBy = &userID
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// SetExpiry sets an expiration time for the grant
func (a *PropertyAccess) SetExpiry(expiresAt time.Time) error {
	if expiresAt.Before(time.Now()) {
		return shared.NewDomainError("INVALID_EXPIRY", "Expiry cannot be in the past")
	}

	a.ExpiresAt = &expiresAt
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// ChangeLevel changes the access level of the grant
func (a *PropertyAccess) ChangeLevel(level AccessLevel) error {
	if err := validateAccessLevel(level); err != nil {
		return err
	}
	if a.Level == level {
		return shared.NewDomainError("SAME_ACCESS_LEVEL", "Access already has this level")
	}

	oldLevel := a.Level
	a.Level = level
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewPropertyAccessLevelChangedEvent(a, oldLevel, level))

	return nil
}

// Revoke deactivates the grant
func (a *PropertyAccess) Revoke() error {
	if !a.IsActive {
		return shared.NewDomainError("ALREADY_REVOKED", "Access has already been revoked")
	}

	a.IsActive = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewPropertyAccessRevokedEvent(a))

	return nil
}

// Restore reactivates a revoked grant
func (a *PropertyAccess) Restore() error {
	if a.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Access is already active")
	}

	a.IsActive = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// IsExpired returns true if the grant has an expiry in the past
func (a *PropertyAccess) IsExpired() bool {
	return a.ExpiresAt != nil && time.Now().After(*a.ExpiresAt)
}

// IsEffective returns true if the grant is active and not expired
func (a *PropertyAccess) IsEffective() bool {
	return a.IsActive && !a.IsExpired()
}

// AtLeast returns true if the grant's level meets or exceeds the required level
func (a *PropertyAccess) AtLeast(required AccessLevel) bool {
	return accessRank[a.Level] >= accessRank[required]
}

// CanWrite returns true if the grant allows creating or editing entries
func (a *PropertyAccess) CanWrite() bool {
	return a.IsEffective() && a.AtLeast(AccessLevelDataEntry)
}

// CanManage returns true if the grant allows budget and export operations
func (a *PropertyAccess) CanManage() bool {
	return a.IsEffective() && a.AtLeast(AccessLevelManager)
}

func validateAccessLevel(level AccessLevel) error {
	switch level {
	case AccessLevelReadOnly, AccessLevelDataEntry, AccessLevelManager, AccessLevelAdmin:
		return nil
	default:
		return shared.NewDomainError("INVALID_ACCESS_LEVEL", "Invalid property access level")
	}
}
