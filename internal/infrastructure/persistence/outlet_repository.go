package persistence

import (
	"context"
	"strings"

	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOutletRepository persists outlets through GORM.
type GormOutletRepository struct {
	db *gorm.DB
}

var _ property.OutletRepository = (*GormOutletRepository)(nil)

func NewGormOutletRepository(db *gorm.DB) *GormOutletRepository {
	return &GormOutletRepository{db: db}
}

func (r *GormOutletRepository) Create(ctx context.Context, outlet *property.Outlet) error {
	return r.db.WithContext(ctx).Create(models.OutletModelFromDomain(outlet)).Error
}

// Update writes the outlet guarded by its previous version.
func (r *GormOutletRepository) Update(ctx context.Context, outlet *property.Outlet) error {
	model := models.OutletModelFromDomain(outlet)
	return checkVersioned(r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", outlet.ID, outlet.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model))
}

func (r *GormOutletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return checkDeleted(r.db.WithContext(ctx).Delete(&models.OutletModel{}, "id = ?", id))
}

func (r *GormOutletRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Outlet, error) {
	var model models.OutletModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByProperty lists the property's outlets by name.
func (r *GormOutletRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*property.Outlet, error) {
	var outletModels []models.OutletModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("name ASC").
		Find(&outletModels).Error; err != nil {
		return nil, err
	}

	outlets := make([]*property.Outlet, len(outletModels))
	for i := range outletModels {
		outlets[i] = outletModels[i].ToDomain()
	}
	return outlets, nil
}

// ExistsByCode reports whether the property already has an outlet with the
// canonical upper-cased code.
func (r *GormOutletRepository) ExistsByCode(ctx context.Context, propertyID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.OutletModel{}).
		Where("property_id = ? AND code = ?", propertyID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}
