package property

import (
	"context"

	"github.com/google/uuid"
)

// PropertyFilter contains filter options for querying properties
type PropertyFilter struct {
	Keyword  string
	Type     *PropertyType
	IsActive *bool

	Page     int
	PageSize int

	SortBy    string
	SortOrder string
}

// NewPropertyFilter creates a filter with default values
func NewPropertyFilter() PropertyFilter {
	return PropertyFilter{
		Page:      1,
		PageSize:  20,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

// Offset returns the offset for pagination
func (f PropertyFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}

// Limit returns the limit for pagination
func (f PropertyFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	Create(ctx context.Context, property *Property) error
	Update(ctx context.Context, property *Property) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Property, error)
	FindByCode(ctx context.Context, code string) (*Property, error)
	FindAll(ctx context.Context, filter PropertyFilter) ([]*Property, int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Property, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// OutletRepository defines the interface for outlet persistence
type OutletRepository interface {
	Create(ctx context.Context, outlet *Outlet) error
	Update(ctx context.Context, outlet *Outlet) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Outlet, error)
	FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*Outlet, error)
	ExistsByCode(ctx context.Context, propertyID uuid.UUID, code string) (bool, error)
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByType(ctx context.Context, categoryType CategoryType) ([]*Category, error)
	FindAll(ctx context.Context) ([]*Category, error)
	ExistsByName(ctx context.Context, categoryType CategoryType, name string) (bool, error)
	// InUse reports whether any cost entry detail references the category
	InUse(ctx context.Context, id uuid.UUID) (bool, error)
}
