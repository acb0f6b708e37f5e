package identity

import (
	"context"

	"github.com/google/uuid"
)

// PropertyAccessRepository defines the interface for property access persistence
type PropertyAccessRepository interface {
	// Create creates a new access grant
	Create(ctx context.Context, access *PropertyAccess) error

	// Update updates an existing access grant
	Update(ctx context.Context, access *PropertyAccess) error

	// Delete deletes an access grant by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds an access grant by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PropertyAccess, error)

	// FindByUserAndProperty finds the grant for a user on a property
	FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*PropertyAccess, error)

	// FindByUser returns all grants for a user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*PropertyAccess, error)

	// FindByProperty returns all grants on a property
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*PropertyAccess, error)

	// PropertyIDsForUser returns the IDs of properties the user can access
	PropertyIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
