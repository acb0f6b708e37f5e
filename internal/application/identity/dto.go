package identity

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// LoginInput contains credentials for a login attempt
type LoginInput struct {
	Username  string `json:"username" binding:"required,min=3,max=100"`
	Password  string `json:"password" binding:"required,min=1,max=128"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResult contains tokens and user info after a successful login
type LoginResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshTokenInput contains the refresh token to exchange
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResult contains the new token pair
type RefreshTokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LogoutInput identifies the session being ended
type LogoutInput struct {
	UserID    uuid.UUID
	TenantID  uuid.UUID
	JTI       string
	TokenTTL  time.Duration
	IP        string
	UserAgent string
}

// GetCurrentUserInput identifies the user to load
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// CurrentUserResult contains the current user's profile and permissions
type CurrentUserResult struct {
	User        UserInfo `json:"user"`
	Permissions []string `json:"permissions"`
}

// ChangePasswordInput contains data for a self-service password change
type ChangePasswordInput struct {
	UserID      uuid.UUID `json:"-"`
	OldPassword string    `json:"old_password" binding:"required"`
	NewPassword string    `json:"new_password" binding:"required,min=8,max=128"`
}

// UserInfo represents the authenticated user in auth responses
type UserInfo struct {
	ID                 uuid.UUID   `json:"id"`
	TenantID           uuid.UUID   `json:"tenant_id"`
	Username           string      `json:"username"`
	DisplayName        string      `json:"display_name"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	Permissions        []string    `json:"permissions"`
	RoleIDs            []uuid.UUID `json:"role_ids"`
	PropertyIDs        []uuid.UUID `json:"property_ids"`
	MustChangePassword bool        `json:"must_change_password"`
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest represents a request to create a new user
type CreateUserRequest struct {
	Username    string      `json:"username" binding:"required,min=3,max=100"`
	Password    string      `json:"password" binding:"required,min=8,max=128"`
	Email       string      `json:"email" binding:"omitempty,email,max=200"`
	Phone       string      `json:"phone" binding:"max=50"`
	DisplayName string      `json:"display_name" binding:"max=200"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
	Active      bool        `json:"active"`
	CreatedBy   *uuid.UUID  `json:"-"` // Set from JWT context, not from request body
}

// UpdateUserRequest represents a request to update a user's profile
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
}

// AssignRolesRequest replaces the user's role set
type AssignRolesRequest struct {
	RoleIDs []uuid.UUID `json:"role_ids" binding:"required"`
}

// ResetPasswordRequest represents an admin password reset
type ResetPasswordRequest struct {
	NewPassword        string `json:"new_password" binding:"required,min=8,max=128"`
	MustChangePassword bool   `json:"must_change_password"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID                 uuid.UUID   `json:"id"`
	TenantID           uuid.UUID   `json:"tenant_id"`
	Username           string      `json:"username"`
	Email              string      `json:"email"`
	Phone              string      `json:"phone"`
	DisplayName        string      `json:"display_name"`
	Status             string      `json:"status"`
	RoleIDs            []uuid.UUID `json:"role_ids"`
	LastLoginAt        *time.Time  `json:"last_login_at"`
	LastLoginIP        string      `json:"last_login_ip,omitempty"`
	MustChangePassword bool        `json:"must_change_password"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Version            int         `json:"version"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Keyword   string `form:"keyword"`
	Status    string `form:"status" binding:"omitempty,oneof=pending active locked deactivated"`
	RoleID    string `form:"role_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ToUserResponse converts a domain User to a UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		TenantID:           u.TenantID,
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		DisplayName:        u.DisplayName,
		Status:             string(u.Status),
		RoleIDs:            u.RoleIDs,
		LastLoginAt:        u.LastLoginAt,
		LastLoginIP:        u.LastLoginIP,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		Version:            u.Version,
	}
}

// ToUserResponses converts a slice of domain Users
func ToUserResponses(users []*identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses
}

// =============================================================================
// Role DTOs
// =============================================================================

// CreateRoleRequest represents a request to create a new role
type CreateRoleRequest struct {
	Code        string     `json:"code" binding:"required,min=2,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description"`
	SortOrder   *int       `json:"sort_order"`
	Permissions []string   `json:"permissions"` // Permission codes, e.g. "cost_entry:write"
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateRoleRequest represents a request to update a role
type UpdateRoleRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

// SetPermissionsRequest replaces a role's permission set
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// PermissionResponse represents a permission in API responses
type PermissionResponse struct {
	Code        string `json:"code"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID           uuid.UUID            `json:"id"`
	TenantID     uuid.UUID            `json:"tenant_id"`
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	IsSystemRole bool                 `json:"is_system_role"`
	IsEnabled    bool                 `json:"is_enabled"`
	SortOrder    int                  `json:"sort_order"`
	Permissions  []PermissionResponse `json:"permissions"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Version      int                  `json:"version"`
}

// ToRoleResponse converts a domain Role to a RoleResponse
func ToRoleResponse(r *identity.Role) RoleResponse {
	permissions := make([]PermissionResponse, len(r.Permissions))
	for i, p := range r.Permissions {
		permissions[i] = PermissionResponse{
			Code:        p.Code,
			Resource:    p.Resource,
			Action:      p.Action,
			Description: p.Description,
		}
	}

	return RoleResponse{
		ID:           r.ID,
		TenantID:     r.TenantID,
		Code:         r.Code,
		Name:         r.Name,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		IsEnabled:    r.IsEnabled,
		SortOrder:    r.SortOrder,
		Permissions:  permissions,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		Version:      r.Version,
	}
}

// ToRoleResponses converts a slice of domain Roles
func ToRoleResponses(roles []*identity.Role) []RoleResponse {
	responses := make([]RoleResponse, len(roles))
	for i, r := range roles {
		responses[i] = ToRoleResponse(r)
	}
	return responses
}

// =============================================================================
// Property access DTOs
// =============================================================================

// GrantAccessRequest represents a request to grant property access
type GrantAccessRequest struct {
	UserID     uuid.UUID  `json:"user_id" binding:"required"`
	PropertyID uuid.UUID  `json:"property_id" binding:"required"`
	Level      string     `json:"level" binding:"required,oneof=read_only data_entry manager admin"`
	ExpiresAt  *time.Time `json:"expires_at"`
	GrantedBy  *uuid.UUID `json:"-"` // Set from JWT context
}

// ChangeAccessLevelRequest changes the level of an existing grant
type ChangeAccessLevelRequest struct {
	Level string `json:"level" binding:"required,oneof=read_only data_entry manager admin"`
}

// AccessResponse represents a property access grant in API responses
type AccessResponse struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	UserID     uuid.UUID  `json:"user_id"`
	PropertyID uuid.UUID  `json:"property_id"`
	Level      string     `json:"level"`
	GrantedBy  *uuid.UUID `json:"granted_by,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToAccessResponse converts a domain PropertyAccess to an AccessResponse
func ToAccessResponse(a *identity.PropertyAccess) AccessResponse {
	return AccessResponse{
		ID:         a.ID,
		TenantID:   a.TenantID,
		UserID:     a.UserID,
		PropertyID: a.PropertyID,
		Level:      string(a.Level),
		GrantedBy:  a.GrantedBy,
		ExpiresAt:  a.ExpiresAt,
		IsActive:   a.IsActive,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToAccessResponses converts a slice of domain PropertyAccess grants
func ToAccessResponses(grants []*identity.PropertyAccess) []AccessResponse {
	responses := make([]AccessResponse, len(grants))
	for i, a := range grants {
		responses[i] = ToAccessResponse(a)
	}
	return responses
}
