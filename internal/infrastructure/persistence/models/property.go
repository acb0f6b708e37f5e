package models

import (
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/google/uuid"
)

// PropertyModel maps the Property aggregate to the properties table.
type PropertyModel struct {
	TenantAggregateModel
	Name     string                `gorm:"type:varchar(200);not null"`
	Code     string                `gorm:"type:varchar(20);not null;uniqueIndex:idx_property_tenant_code,priority:2"`
	Type     property.PropertyType `gorm:"type:varchar(20);not null"`
	Currency string                `gorm:"type:varchar(3);not null;default:'USD'"`
	TimeZone string                `gorm:"type:varchar(64)"`
	Address  string                `gorm:"type:varchar(500)"`
	IsActive bool                  `gorm:"not null;default:true;index"`
}

func (PropertyModel) TableName() string { return "properties" }

func (m *PropertyModel) ToDomain() *property.Property {
	p := &property.Property{
		Name:     m.Name,
		Code:     m.Code,
		Type:     m.Type,
		Currency: m.Currency,
		TimeZone: m.TimeZone,
		Address:  m.Address,
		IsActive: m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&p.TenantAggregateRoot)
	return p
}

func PropertyModelFromDomain(p *property.Property) *PropertyModel {
	m := &PropertyModel{
		Name:     p.Name,
		Code:     p.Code,
		Type:     p.Type,
		Currency: p.Currency,
		TimeZone: p.TimeZone,
		Address:  p.Address,
		IsActive: p.IsActive,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// OutletModel maps the Outlet aggregate. The code is unique per property,
// not per tenant.
type OutletModel struct {
	TenantAggregateModel
	PropertyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_outlet_property_code,priority:1"`
	Name       string    `gorm:"type:varchar(200);not null"`
	Code       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_outlet_property_code,priority:2"`
	IsActive   bool      `gorm:"not null;default:true"`
}

func (OutletModel) TableName() string { return "outlets" }

func (m *OutletModel) ToDomain() *property.Outlet {
	o := &property.Outlet{
		PropertyID: m.PropertyID,
		Name:       m.Name,
		Code:       m.Code,
		IsActive:   m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	return o
}

func OutletModelFromDomain(o *property.Outlet) *OutletModel {
	m := &OutletModel{
		PropertyID: o.PropertyID,
		Name:       o.Name,
		Code:       o.Code,
		IsActive:   o.IsActive,
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	return m
}

// CategoryModel maps the cost Category aggregate. The name is unique within
// a tenant and cost type.
type CategoryModel struct {
	TenantAggregateModel
	Type        property.CategoryType `gorm:"type:varchar(20);not null;uniqueIndex:idx_category_tenant_type_name,priority:2"`
	Name        string                `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_tenant_type_name,priority:3"`
	Description string                `gorm:"type:varchar(500)"`
	IsActive    bool                  `gorm:"not null;default:true"`
}

func (CategoryModel) TableName() string { return "cost_categories" }

func (m *CategoryModel) ToDomain() *property.Category {
	c := &property.Category{
		Type:        m.Type,
		Name:        m.Name,
		Description: m.Description,
		IsActive:    m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

func CategoryModelFromDomain(c *property.Category) *CategoryModel {
	m := &CategoryModel{
		Type:        c.Type,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
