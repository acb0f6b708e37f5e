package identity

import (
	"context"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleService handles role administration operations
type RoleService struct {
	roleRepo identity.RoleRepository
	recorder *auditapp.Recorder
	logger   *zap.Logger
}

// NewRoleService creates a new RoleService
func NewRoleService(roleRepo identity.RoleRepository, recorder *auditapp.Recorder, logger *zap.Logger) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		recorder: recorder,
		logger:   logger,
	}
}

// Create creates a new role
func (s *RoleService) Create(ctx context.Context, tenantID uuid.UUID, req CreateRoleRequest) (*RoleResponse, error) {
	exists, err := s.roleRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Role with this code already exists")
	}

	role, err := identity.NewRole(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	role.CreatedBy = req.CreatedBy

	if req.Description != "" {
		role.SetDescription(req.Description)
	}
	if req.SortOrder != nil {
		role.SetSortOrder(*req.SortOrder)
	}

	for _, code := range req.Permissions {
		if err := role.GrantPermissionByCode(code); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	if len(role.Permissions) > 0 {
		if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
			return nil, err
		}
	}

	s.recordRoleAction(ctx, role, audit.ActionCreate)
	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("code", role.Code))

	response := ToRoleResponse(role)
	return &response, nil
}

// GetByID retrieves a role by ID including its permissions
func (s *RoleService) GetByID(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
		return nil, err
	}

	response := ToRoleResponse(role)
	return &response, nil
}

// List retrieves all roles for the tenant including permissions
func (s *RoleService) List(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, role := range roles {
		if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
			return nil, err
		}
	}

	return ToRoleResponses(roles), nil
}

// Update updates a role's name, description and sort order
func (s *RoleService) Update(ctx context.Context, roleID uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := role.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		role.SetDescription(*req.Description)
	}
	if req.SortOrder != nil {
		role.SetSortOrder(*req.SortOrder)
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
		return nil, err
	}

	s.recordRoleAction(ctx, role, audit.ActionUpdate)

	response := ToRoleResponse(role)
	return &response, nil
}

// SetPermissions replaces a role's permission set
func (s *RoleService) SetPermissions(ctx context.Context, roleID uuid.UUID, req SetPermissionsRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	permissions := make([]identity.Permission, 0, len(req.Permissions))
	for _, code := range req.Permissions {
		perm, err := identity.NewPermissionFromCode(code)
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, *perm)
	}

	if err := role.SetPermissions(permissions); err != nil {
		return nil, err
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}
	if err := s.roleRepo.SavePermissions(ctx, role); err != nil {
		return nil, err
	}

	s.recordRoleAction(ctx, role, audit.ActionUpdate)
	s.logger.Info("Role permissions replaced",
		zap.String("role_id", role.ID.String()),
		zap.Int("permission_count", len(role.Permissions)))

	response := ToRoleResponse(role)
	return &response, nil
}

// Enable enables a role
func (s *RoleService) Enable(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error) {
	return s.transition(ctx, roleID, func(r *identity.Role) error { return r.Enable() })
}

// Disable disables a role
func (s *RoleService) Disable(ctx context.Context, roleID uuid.UUID) (*RoleResponse, error) {
	return s.transition(ctx, roleID, func(r *identity.Role) error { return r.Disable() })
}

// Delete deletes a role. System roles cannot be deleted.
func (s *RoleService) Delete(ctx context.Context, roleID uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return err
	}

	if !role.CanDelete() {
		return shared.NewDomainError("CANNOT_DELETE", "System roles cannot be deleted")
	}

	if err := s.roleRepo.Delete(ctx, roleID); err != nil {
		return err
	}

	s.recordRoleAction(ctx, role, audit.ActionDelete)
	s.logger.Info("Role deleted",
		zap.String("role_id", roleID.String()),
		zap.String("code", role.Code))

	return nil
}

func (s *RoleService) transition(ctx context.Context, roleID uuid.UUID, fn func(*identity.Role) error) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if err := fn(role); err != nil {
		return nil, err
	}

	if err := s.roleRepo.Update(ctx, role); err != nil {
		return nil, err
	}

	if err := s.roleRepo.LoadPermissions(ctx, role); err != nil {
		return nil, err
	}

	s.recordRoleAction(ctx, role, audit.ActionUpdate)

	response := ToRoleResponse(role)
	return &response, nil
}

func (s *RoleService) recordRoleAction(ctx context.Context, role *identity.Role, action string) {
	log, err := audit.NewAuditLog(role.TenantID, action, "role")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.WithResourceID(role.ID.String()))
}
