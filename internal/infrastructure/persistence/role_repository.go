package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRoleRepository persists roles and their permission grants through GORM.
type GormRoleRepository struct {
	db *gorm.DB
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)

func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Create(models.RoleModelFromDomain(role)).Error
}

// Update writes the role guarded by its previous version.
func (r *GormRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	model := models.RoleModelFromDomain(role)
	return checkVersioned(r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", role.ID, role.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model))
}

// Delete removes the role, its permission grants and its user assignments in
// one transaction.
func (r *GormRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&models.UserRoleModel{}).Error; err != nil {
			return err
		}
		return checkDeleted(tx.Delete(&models.RoleModel{}, "id = ?", id))
	})
}

func (r *GormRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCode looks a role up by the canonical upper-cased form of the code,
// matching how NewRole stores it.
func (r *GormRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", canonicalRoleCode(code)).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

func (r *GormRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	if len(ids) == 0 {
		return []*identity.Role{}, nil
	}

	var roleModels []models.RoleModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roleModels).Error; err != nil {
		return nil, err
	}
	return toRoles(roleModels), nil
}

// FindAll lists the tenant's roles in display order.
func (r *GormRoleRepository) FindAll(ctx context.Context) ([]*identity.Role, error) {
	var roleModels []models.RoleModel
	if err := r.db.WithContext(ctx).
		Order("sort_order ASC, name ASC").
		Find(&roleModels).Error; err != nil {
		return nil, err
	}
	return toRoles(roleModels), nil
}

func (r *GormRoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RoleModel{}).
		Where("code = ?", canonicalRoleCode(code)).
		Count(&count).Error
	return count > 0, err
}

// SavePermissions replaces the role's permission grants with the aggregate's
// current set.
func (r *GormRoleRepository) SavePermissions(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.RolePermissionModel{}).Error; err != nil {
			return err
		}
		if len(role.Permissions) == 0 {
			return nil
		}

		grants := make([]models.RolePermissionModel, len(role.Permissions))
		for i, perm := range role.Permissions {
			grants[i] = models.RolePermissionModel{
				RoleID:      role.ID,
				TenantID:    role.TenantID,
				Code:        perm.Code,
				Resource:    perm.Resource,
				Action:      perm.Action,
				Description: perm.Description,
				CreatedAt:   time.Now(),
			}
		}
		return tx.Create(&grants).Error
	})
}

// LoadPermissions fills role.Permissions from the grant table.
func (r *GormRoleRepository) LoadPermissions(ctx context.Context, role *identity.Role) error {
	var grants []models.RolePermissionModel
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", role.ID).
		Find(&grants).Error; err != nil {
		return err
	}

	permissions := make([]identity.Permission, len(grants))
	for i, g := range grants {
		permissions[i] = identity.Permission{
			Code:        g.Code,
			Resource:    g.Resource,
			Action:      g.Action,
			Description: g.Description,
		}
	}
	role.Permissions = permissions
	return nil
}

func toRoles(roleModels []models.RoleModel) []*identity.Role {
	roles := make([]*identity.Role, len(roleModels))
	for i := range roleModels {
		roles[i] = roleModels[i].ToDomain()
	}
	return roles
}

func canonicalRoleCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
