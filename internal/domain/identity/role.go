package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	roleCodeRe    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	permSegmentRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Predefined system role codes
const (
	RoleCodeAdmin     = "ADMIN"
	RoleCodeManager   = "MANAGER"
	RoleCodeDataEntry = "DATA_ENTRY"
	RoleCodeViewer    = "VIEWER"
)

// Permission is a value object naming one grantable capability. Codes follow
// the resource:action pattern, for example "cost_entry:write".
type Permission struct {
	Code        string
	Resource    string
	Action      string
	Description string
}

// NewPermission builds a Permission from its resource and action parts.
func NewPermission(resource, action string) (*Permission, error) {
	if err := validatePermissionSegment(resource, "INVALID_PERMISSION_RESOURCE", "resource"); err != nil {
		return nil, err
	}
	if err := validatePermissionSegment(action, "INVALID_PERMISSION_ACTION", "action"); err != nil {
		return nil, err
	}

	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	return &Permission{
		Code:     resource + ":" + action,
		Resource: resource,
		Action:   action,
	}, nil
}

// NewPermissionFromCode parses a "resource:action" code into a Permission.
func NewPermissionFromCode(code string) (*Permission, error) {
	resource, action, ok := strings.Cut(code, ":")
	if !ok {
		return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(resource, action)
}

// Equals compares two permissions by code.
func (p Permission) Equals(other Permission) bool {
	return p.Code == other.Code
}

// IsEmpty reports whether the permission carries no code.
func (p Permission) IsEmpty() bool {
	return p.Code == ""
}

// Role is the aggregate root for RBAC. A role bundles permissions and is
// assigned to users; system roles are seeded and cannot be deleted.
type Role struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Description  string
	IsSystemRole bool
	IsEnabled    bool
	SortOrder    int
	Permissions  []Permission // persisted in a join table
}

// RolePermission is a row in the role/permission join table.
type RolePermission struct {
	RoleID      uuid.UUID
	TenantID    uuid.UUID
	Code        string
	Resource    string
	Action      string
	Description string
	CreatedAt   time.Time
}

// touch updates the audit timestamp and bumps the optimistic lock version.
func (r *Role) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// NewRole creates an enabled role with no permissions. The code is
// normalized to upper case.
func NewRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	role := &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		IsSystemRole:        false,
		IsEnabled:           true,
		Permissions:         make([]Permission, 0),
	}

	role.AddDomainEvent(NewRoleCreatedEvent(role))

	return role, nil
}

// NewSystemRole creates a role that delete operations must refuse.
func NewSystemRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	role, err := NewRole(tenantID, code, name)
	if err != nil {
		return nil, err
	}
	role.IsSystemRole = true
	return role, nil
}

// SetName renames the role.
func (r *Role) SetName(name string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.touch()
	return nil
}

// SetDescription sets the role description.
func (r *Role) SetDescription(description string) {
	r.Description = description
	r.touch()
}

// SetSortOrder sets the position of the role in listings.
func (r *Role) SetSortOrder(order int) {
	r.SortOrder = order
	r.touch()
}

// Enable makes the role assignable again.
func (r *Role) Enable() error {
	if r.IsEnabled {
		return shared.NewDomainError("ALREADY_ENABLED", "Role is already enabled")
	}

	r.IsEnabled = true
	r.touch()
	return nil
}

// Disable stops the role from granting its permissions.
func (r *Role) Disable() error {
	if !r.IsEnabled {
		return shared.NewDomainError("ALREADY_DISABLED", "Role is already disabled")
	}

	r.IsEnabled = false
	r.touch()
	return nil
}

// GrantPermission adds a permission to the role. Granting a permission the
// role already holds is an error.
func (r *Role) GrantPermission(perm Permission) error {
	if perm.IsEmpty() {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
	}
	if r.HasPermission(perm.Code) {
		return shared.NewDomainError("PERMISSION_ALREADY_GRANTED", "Role already has this permission")
	}

	r.Permissions = append(r.Permissions, perm)
	r.touch()
	return nil
}

// GrantPermissionByCode parses a "resource:action" code and grants it.
func (r *Role) GrantPermissionByCode(code string) error {
	perm, err := NewPermissionFromCode(code)
	if err != nil {
		return err
	}
	return r.GrantPermission(*perm)
}

// RevokePermission removes a permission from the role by code.
func (r *Role) RevokePermission(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code cannot be empty")
	}
	if !r.HasPermission(code) {
		return shared.NewDomainError("PERMISSION_NOT_FOUND", "Role does not have this permission")
	}

	kept := make([]Permission, 0, len(r.Permissions)-1)
	for _, p := range r.Permissions {
		if p.Code != code {
			kept = append(kept, p)
		}
	}
	r.Permissions = kept
	r.touch()
	return nil
}

// SetPermissions replaces the role's permission set. Duplicate codes in the
// input collapse to one grant.
func (r *Role) SetPermissions(permissions []Permission) error {
	seen := make(map[string]bool, len(permissions))
	unique := make([]Permission, 0, len(permissions))
	for _, p := range permissions {
		if p.IsEmpty() {
			return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
		}
		if !seen[p.Code] {
			seen[p.Code] = true
			unique = append(unique, p)
		}
	}

	r.Permissions = unique
	r.touch()
	return nil
}

// HasPermission reports whether the role holds the permission with the
// given code.
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}
	return false
}

// HasPermissionForResource reports whether the role holds any permission on
// the given resource.
func (r *Role) HasPermissionForResource(resource string) bool {
	resource = strings.ToLower(strings.TrimSpace(resource))
	for _, p := range r.Permissions {
		if p.Resource == resource {
			return true
		}
	}
	return false
}

// CanDelete reports whether the role may be deleted. System roles may not.
func (r *Role) CanDelete() bool {
	return !r.IsSystemRole
}

// Update sets the name and description in one step.
func (r *Role) Update(name, description string) error {
	if err := r.SetName(name); err != nil {
		return err
	}
	r.SetDescription(description)
	return nil
}

func validateRoleCode(code string) error {
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	case len(code) < 2:
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must be at least 2 characters")
	case len(code) > 50:
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	case !roleCodeRe.MatchString(code):
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}

func validatePermissionSegment(value, errCode, what string) error {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return shared.NewDomainError(errCode, "Permission "+what+" cannot be empty")
	case len(value) > 50:
		return shared.NewDomainError(errCode, "Permission "+what+" cannot exceed 50 characters")
	case !permSegmentRe.MatchString(strings.ToLower(value)):
		return shared.NewDomainError(errCode, "Permission "+what+" must start with a letter and contain only lowercase letters, numbers, and underscores")
	}
	return nil
}
