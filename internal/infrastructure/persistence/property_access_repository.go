package persistence

import (
	"context"
	"time"

	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPropertyAccessRepository persists per-property access grants through
// GORM.
type GormPropertyAccessRepository struct {
	db *gorm.DB
}

var _ identity.PropertyAccessRepository = (*GormPropertyAccessRepository)(nil)

func NewGormPropertyAccessRepository(db *gorm.DB) *GormPropertyAccessRepository {
	return &GormPropertyAccessRepository{db: db}
}

func (r *GormPropertyAccessRepository) Create(ctx context.Context, access *identity.PropertyAccess) error {
	return r.db.WithContext(ctx).Create(models.PropertyAccessModelFromDomain(access)).Error
}

// Update writes the grant guarded by its previous version.
func (r *GormPropertyAccessRepository) Update(ctx context.Context, access *identity.PropertyAccess) error {
	model := models.PropertyAccessModelFromDomain(access)
	return checkVersioned(r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", access.ID, access.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model))
}

func (r *GormPropertyAccessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return checkDeleted(r.db.WithContext(ctx).Delete(&models.PropertyAccessModel{}, "id = ?", id))
}

func (r *GormPropertyAccessRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.PropertyAccess, error) {
	var model models.PropertyAccessModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByUserAndProperty returns the single grant a user holds on a property.
func (r *GormPropertyAccessRepository) FindByUserAndProperty(ctx context.Context, userID, propertyID uuid.UUID) (*identity.PropertyAccess, error) {
	var model models.PropertyAccessModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

func (r *GormPropertyAccessRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*identity.PropertyAccess, error) {
	return r.listGrants(ctx, "user_id = ?", userID)
}

func (r *GormPropertyAccessRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*identity.PropertyAccess, error) {
	return r.listGrants(ctx, "property_id = ?", propertyID)
}

func (r *GormPropertyAccessRepository) listGrants(ctx context.Context, cond string, arg any) ([]*identity.PropertyAccess, error) {
	var accessModels []models.PropertyAccessModel
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at ASC").
		Find(&accessModels).Error; err != nil {
		return nil, err
	}

	grants := make([]*identity.PropertyAccess, len(accessModels))
	for i := range accessModels {
		grants[i] = accessModels[i].ToDomain()
	}
	return grants, nil
}

// PropertyIDsForUser returns the properties the user can currently reach,
// meaning grants that are active and not past their expiry.
func (r *GormPropertyAccessRepository) PropertyIDsForUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.PropertyAccessModel{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Pluck("property_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
