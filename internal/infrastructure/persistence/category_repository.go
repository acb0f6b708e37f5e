package persistence

import (
	"context"
	"strings"

	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository persists cost categories through GORM.
type GormCategoryRepository struct {
	db *gorm.DB
}

var _ property.CategoryRepository = (*GormCategoryRepository)(nil)

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, category *property.Category) error {
	return r.db.WithContext(ctx).Create(models.CategoryModelFromDomain(category)).Error
}

// Update writes the category guarded by its previous version.
func (r *GormCategoryRepository) Update(ctx context.Context, category *property.Category) error {
	model := models.CategoryModelFromDomain(category)
	return checkVersioned(r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", category.ID, category.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model))
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return checkDeleted(r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id))
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByType lists the tenant's categories of one cost type.
func (r *GormCategoryRepository) FindByType(ctx context.Context, categoryType property.CategoryType) ([]*property.Category, error) {
	return r.list(ctx, r.db.WithContext(ctx).
		Where("type = ?", categoryType).
		Order("name ASC"))
}

// FindAll lists every category for the tenant, food before beverage.
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]*property.Category, error) {
	return r.list(ctx, r.db.WithContext(ctx).Order("type ASC, name ASC"))
}

func (r *GormCategoryRepository) list(_ context.Context, query *gorm.DB) ([]*property.Category, error) {
	var categoryModels []models.CategoryModel
	if err := query.Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*property.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToDomain()
	}
	return categories, nil
}

// ExistsByName reports whether the type already has a category with the name,
// compared case-insensitively.
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, categoryType property.CategoryType, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Where("type = ? AND LOWER(name) = ?", categoryType, strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error
	return count > 0, err
}

// InUse reports whether any cost entry line references the category. Used
// categories cannot be deleted.
func (r *GormCategoryRepository) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CostEntryDetailModel{}).
		Where("category_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
