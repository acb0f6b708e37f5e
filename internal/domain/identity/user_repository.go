package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository is the persistence port for the User aggregate. Role
// assignments live in a join table, so implementations load and save them
// through the dedicated methods rather than as part of Create or Update.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SaveUserRoles replaces the user's stored role assignments with the
	// aggregate's current RoleIDs.
	SaveUserRoles(ctx context.Context, user *User) error
	// LoadUserRoles populates the aggregate's RoleIDs from storage.
	LoadUserRoles(ctx context.Context, user *User) error

	Count(ctx context.Context) (int64, error)
}

// UserFilter narrows and pages FindAll results. The keyword matches
// username, email, and display name.
type UserFilter struct {
	Keyword string
	Status  *UserStatus
	RoleID  *uuid.UUID

	Page     int
	PageSize int

	SortBy    string
	SortOrder string // asc or desc
}

// NewUserFilter returns a filter with the default sort and page size.
func NewUserFilter() UserFilter {
	return UserFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset converts the page number into a row offset.
func (f UserFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the page size, clamped to at most 100 rows.
func (f UserFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
