package property

import (
	"time"

	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/google/uuid"
)

// =============================================================================
// Property DTOs
// =============================================================================

// CreatePropertyRequest represents a request to create a new property
type CreatePropertyRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	Code      string     `json:"code" binding:"required,min=2,max=20"`
	Type      string     `json:"type" binding:"required,oneof=hotel restaurant"`
	Currency  string     `json:"currency" binding:"omitempty,len=3"`
	TimeZone  string     `json:"time_zone" binding:"omitempty,max=64"`
	Address   string     `json:"address" binding:"max=500"`
	CreatedBy *uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// UpdatePropertyRequest represents a request to update a property
type UpdatePropertyRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Currency *string `json:"currency" binding:"omitempty,len=3"`
	TimeZone *string `json:"time_zone" binding:"omitempty,max=64"`
	Address  *string `json:"address" binding:"omitempty,max=500"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	Currency  string    `json:"currency"`
	TimeZone  string    `json:"time_zone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// PropertyListFilter represents filter options for the property list
type PropertyListFilter struct {
	Keyword   string `form:"keyword"`
	Type      string `form:"type" binding:"omitempty,oneof=hotel restaurant"`
	IsActive  *bool  `form:"is_active"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ToPropertyResponse converts a domain Property to a PropertyResponse
func ToPropertyResponse(p *property.Property) PropertyResponse {
	return PropertyResponse{
		ID:        p.ID,
		TenantID:  p.TenantID,
		Name:      p.Name,
		Code:      p.Code,
		Type:      string(p.Type),
		Currency:  p.Currency,
		TimeZone:  p.TimeZone,
		Address:   p.Address,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

// ToPropertyResponses converts a slice of domain Properties
func ToPropertyResponses(properties []*property.Property) []PropertyResponse {
	responses := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		responses[i] = ToPropertyResponse(p)
	}
	return responses
}

// =============================================================================
// Outlet DTOs
// =============================================================================

// CreateOutletRequest represents a request to create a new outlet
type CreateOutletRequest struct {
	PropertyID uuid.UUID  `json:"property_id" binding:"required"`
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Code       string     `json:"code" binding:"required,min=2,max=20"`
	CreatedBy  *uuid.UUID `json:"-"`
}

// UpdateOutletRequest represents a request to update an outlet
type UpdateOutletRequest struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=200"`
}

// OutletResponse represents an outlet in API responses
type OutletResponse struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	PropertyID uuid.UUID `json:"property_id"`
	Name       string    `json:"name"`
	Code       string    `json:"code"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int       `json:"version"`
}

// ToOutletResponse converts a domain Outlet to an OutletResponse
func ToOutletResponse(o *property.Outlet) OutletResponse {
	return OutletResponse{
		ID:         o.ID,
		TenantID:   o.TenantID,
		PropertyID: o.PropertyID,
		Name:       o.Name,
		Code:       o.Code,
		IsActive:   o.IsActive,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Version:    o.Version,
	}
}

// ToOutletResponses converts a slice of domain Outlets
func ToOutletResponses(outlets []*property.Outlet) []OutletResponse {
	responses := make([]OutletResponse, len(outlets))
	for i, o := range outlets {
		responses[i] = ToOutletResponse(o)
	}
	return responses
}

// =============================================================================
// Category DTOs
// =============================================================================

// CreateCategoryRequest represents a request to create a new cost category
type CreateCategoryRequest struct {
	Type        string     `json:"type" binding:"required,oneof=food beverage"`
	Name        string     `json:"name" binding:"required,min=1,max=100"`
	Description string     `json:"description" binding:"max=500"`
	CreatedBy   *uuid.UUID `json:"-"`
}

// UpdateCategoryRequest represents a request to update a cost category
type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// CategoryResponse represents a cost category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// ToCategoryResponse converts a domain Category to a CategoryResponse
func ToCategoryResponse(c *property.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Type:        string(c.Type),
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// ToCategoryResponses converts a slice of domain Categories
func ToCategoryResponses(categories []*property.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = ToCategoryResponse(c)
	}
	return responses
}
