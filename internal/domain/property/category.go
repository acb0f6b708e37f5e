package property

import (
	"strings"
	"time"

	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryType separates food and beverage cost categories
type CategoryType string

const (
	CategoryTypeFood     CategoryType = "food"
	CategoryTypeBeverage CategoryType = "beverage"
)

// Category represents a cost category used on daily entry detail lines,
// such as "Meat", "Dairy", or "Spirits".
type Category struct {
	shared.TenantAggregateRoot
	Type        CategoryType
	Name        string
	Description string
	IsActive    bool
}

// NewCategory creates a new cost category
func NewCategory(tenantID uuid.UUID, categoryType CategoryType, name string) (*Category, error) {
	if err := validateCategoryType(categoryType); err != nil {
		return nil, err
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Type:                categoryType,
		Name:                strings.TrimSpace(name),
		IsActive:            true,
	}

	return category, nil
}

// SetName sets the category name
func (c *Category) SetName(name string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetDescription sets the category description
func (c *Category) SetDescription(description string) error {
	if len(description) > 500 {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot exceed 500 characters")
	}

	c.Description = strings.TrimSpace(description)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate activates the category
func (c *Category) Activate() error {
	if c.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Category is already active")
	}

	c.IsActive = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the category
func (c *Category) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Category is already inactive")
	}

	c.IsActive = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

func validateCategoryType(categoryType CategoryType) error {
	switch categoryType {
	case CategoryTypeFood, CategoryTypeBeverage:
		return nil
	default:
		return shared.NewDomainError("INVALID_CATEGORY_TYPE", "Category type must be food or beverage")
	}
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
