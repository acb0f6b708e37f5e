package identity

import (
	"context"

	"github.com/google/uuid"
)

// RoleRepository is the persistence port for the Role aggregate. Lookups by
// code resolve within the current tenant.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByCode(ctx context.Context, code string) (*Role, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Role, error)
	FindAll(ctx context.Context) ([]*Role, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// SavePermissions replaces the stored permission set with the role's
	// current one. LoadPermissions hydrates it back onto the aggregate.
	SavePermissions(ctx context.Context, role *Role) error
	LoadPermissions(ctx context.Context, role *Role) error
}
