package models

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// UserModel maps the User aggregate to the users table. Role assignments
// live in user_roles and are loaded separately.
type UserModel struct {
	TenantAggregateModel
	Username           string              `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	Email              string              `gorm:"type:varchar(200);index"`
	Phone              string              `gorm:"type:varchar(50)"`
	PasswordHash       string              `gorm:"type:varchar(200);not null"`
	DisplayName        string              `gorm:"type:varchar(200)"`
	Status             identity.UserStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	LastLoginAt        *time.Time
	LastLoginIP        string `gorm:"type:varchar(45)"`
	FailedAttempts     int    `gorm:"not null;default:0"`
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool `gorm:"not null;default:false"`
}

func (UserModel) TableName() string { return "users" }

func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:           m.Username,
		Email:              m.Email,
		Phone:              m.Phone,
		PasswordHash:       m.PasswordHash,
		DisplayName:        m.DisplayName,
		Status:             m.Status,
		RoleIDs:            make([]uuid.UUID, 0),
		LastLoginAt:        m.LastLoginAt,
		LastLoginIP:        m.LastLoginIP,
		FailedAttempts:     m.FailedAttempts,
		LockedUntil:        m.LockedUntil,
		PasswordChangedAt:  m.PasswordChangedAt,
		MustChangePassword: m.MustChangePassword,
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	return u
}

func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:           u.Username,
		Email:              u.Email,
		Phone:              u.Phone,
		PasswordHash:       u.PasswordHash,
		DisplayName:        u.DisplayName,
		Status:             u.Status,
		LastLoginAt:        u.LastLoginAt,
		LastLoginIP:        u.LastLoginIP,
		FailedAttempts:     u.FailedAttempts,
		LockedUntil:        u.LockedUntil,
		PasswordChangedAt:  u.PasswordChangedAt,
		MustChangePassword: u.MustChangePassword,
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	return m
}

// UserRoleModel maps one user-to-role assignment.
type UserRoleModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;not null;primaryKey;index"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (UserRoleModel) TableName() string { return "user_roles" }

// RoleModel maps the Role aggregate to the roles table. Permission grants
// live in role_permissions and are loaded separately.
type RoleModel struct {
	TenantAggregateModel
	Code         string `gorm:"type:varchar(50);not null;uniqueIndex:idx_role_tenant_code,priority:2"`
	Name         string `gorm:"type:varchar(100);not null"`
	Description  string `gorm:"type:text"`
	IsSystemRole bool   `gorm:"not null;default:false"`
	IsEnabled    bool   `gorm:"not null;default:true"`
	SortOrder    int    `gorm:"not null;default:0"`
}

func (RoleModel) TableName() string { return "roles" }

func (m *RoleModel) ToDomain() *identity.Role {
	r := &identity.Role{
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		IsSystemRole: m.IsSystemRole,
		IsEnabled:    m.IsEnabled,
		SortOrder:    m.SortOrder,
		Permissions:  make([]identity.Permission, 0),
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{
		Code:         r.Code,
		Name:         r.Name,
		Description:  r.Description,
		IsSystemRole: r.IsSystemRole,
		IsEnabled:    r.IsEnabled,
		SortOrder:    r.SortOrder,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// RolePermissionModel maps one permission grant on a role.
type RolePermissionModel struct {
	RoleID      uuid.UUID `gorm:"type:uuid;not null;primaryKey"`
	Code        string    `gorm:"type:varchar(101);not null;primaryKey"`
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Resource    string    `gorm:"type:varchar(50);not null"`
	Action      string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (RolePermissionModel) TableName() string { return "role_permissions" }

// PropertyAccessModel maps one per-property access grant. A user holds at
// most one grant per property.
type PropertyAccessModel struct {
	TenantAggregateModel
	UserID     uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_access_user_property,priority:1"`
	PropertyID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_access_user_property,priority:2"`
	Level      identity.AccessLevel `gorm:"type:varchar(20);not null"`
	GrantedBy  *uuid.UUID           `gorm:"type:uuid"`
	ExpiresAt  *time.Time
	IsActive   bool `gorm:"not null;default:true"`
}

func (PropertyAccessModel) TableName() string { return "property_access_grants" }

func (m *PropertyAccessModel) ToDomain() *identity.PropertyAccess {
	a := &identity.PropertyAccess{
		UserID:     m.UserID,
		PropertyID: m.PropertyID,
		Level:      m.Level,
		GrantedBy:  m.GrantedBy,
		ExpiresAt:  m.ExpiresAt,
		IsActive:   m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

func PropertyAccessModelFromDomain(a *identity.PropertyAccess) *PropertyAccessModel {
	m := &PropertyAccessModel{
		UserID:     a.UserID,
		PropertyID: a.PropertyID,
		Level:      a.Level,
		GrantedBy:  a.GrantedBy,
		ExpiresAt:  a.ExpiresAt,
		IsActive:   a.IsActive,
	}
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	return m
}
