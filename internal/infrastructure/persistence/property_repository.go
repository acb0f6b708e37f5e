package persistence

import (
	"context"
	"strings"

	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPropertyRepository persists properties through GORM.
type GormPropertyRepository struct {
	db *gorm.DB
}

var _ property.PropertyRepository = (*GormPropertyRepository)(nil)

func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

func (r *GormPropertyRepository) Create(ctx context.Context, p *property.Property) error {
	return r.db.WithContext(ctx).Create(models.PropertyModelFromDomain(p)).Error
}

// Update writes the property guarded by its previous version.
func (r *GormPropertyRepository) Update(ctx context.Context, p *property.Property) error {
	model := models.PropertyModelFromDomain(p)
	return checkVersioned(r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", p.ID, p.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model))
}

func (r *GormPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return checkDeleted(r.db.WithContext(ctx).Delete(&models.PropertyModel{}, "id = ?", id))
}

func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCode looks a property up by the canonical upper-cased code.
func (r *GormPropertyRepository) FindByCode(ctx context.Context, code string) (*property.Property, error) {
	var model models.PropertyModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", canonicalPropertyCode(code)).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns the filtered page of properties together with the unpaged
// total.
func (r *GormPropertyRepository) FindAll(ctx context.Context, filter property.PropertyFilter) ([]*property.Property, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PropertyModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var propertyModels []models.PropertyModel
	if err := query.
		Order(OrderClause(filter.SortBy, filter.SortOrder, PropertySortFields, "created_at")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&propertyModels).Error; err != nil {
		return nil, 0, err
	}

	return toProperties(propertyModels), total, nil
}

func (r *GormPropertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*property.Property, error) {
	if len(ids) == 0 {
		return []*property.Property{}, nil
	}

	var propertyModels []models.PropertyModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&propertyModels).Error; err != nil {
		return nil, err
	}
	return toProperties(propertyModels), nil
}

func (r *GormPropertyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PropertyModel{}).
		Where("code = ?", canonicalPropertyCode(code)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter property.PropertyFilter) *gorm.DB {
	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	return query
}

func toProperties(propertyModels []models.PropertyModel) []*property.Property {
	properties := make([]*property.Property, len(propertyModels))
	for i := range propertyModels {
		properties[i] = propertyModels[i].ToDomain()
	}
	return properties
}

func canonicalPropertyCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
