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

// UserService handles user administration operations
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
	recorder *auditapp.Recorder
	logger   *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		recorder: recorder,
		logger:   logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this username already exists")
	}

	if req.Email != "" {
		exists, err = s.userRepo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
		}
	}

	var user *identity.User
	if req.Active {
		user, err = identity.NewActiveUser(tenantID, req.Username, req.Password)
	} else {
		user, err = identity.NewUser(tenantID, req.Username, req.Password)
	}
	if err != nil {
		return nil, err
	}

	user.CreatedBy = req.CreatedBy

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := user.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if len(req.RoleIDs) > 0 {
		if err := s.verifyRolesExist(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
		if err := user.SetRoles(req.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if len(user.RoleIDs) > 0 {
		if err := s.userRepo.SaveUserRoles(ctx, user); err != nil {
			return nil, err
		}
	}

	s.recordUserAction(ctx, user, audit.ActionCreate)
	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	response := ToUserResponse(user)
	return &response, nil
}

// GetByID retrieves a user by ID including role assignments
func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.LoadUserRoles(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := identity.NewUserFilter()

	if filter.Keyword != "" {
		domainFilter.Keyword = filter.Keyword
	}
	if filter.Status != "" {
		status := identity.UserStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.RoleID != "" {
		roleID, err := uuid.Parse(filter.RoleID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_ROLE_ID", "Invalid role ID")
		}
		domainFilter.RoleID = &roleID
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.SortBy != "" {
		domainFilter.SortBy = filter.SortBy
	}
	if filter.SortOrder != "" {
		domainFilter.SortOrder = filter.SortOrder
	}

	users, total, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Update updates a user's profile fields
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if *req.Email != "" && *req.Email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
			}
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := user.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.recordUserAction(ctx, user, audit.ActionUpdate)

	response := ToUserResponse(user)
	return &response, nil
}

// AssignRoles replaces the user's role set
func (s *UserService) AssignRoles(ctx context.Context, userID uuid.UUID, req AssignRolesRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(req.RoleIDs) > 0 {
		if err := s.verifyRolesExist(ctx, req.RoleIDs); err != nil {
			return nil, err
		}
	}

	if err := user.SetRoles(req.RoleIDs); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveUserRoles(ctx, user); err != nil {
		return nil, err
	}

	s.recordUserAction(ctx, user, audit.ActionUpdate)
	s.logger.Info("User roles assigned",
		zap.String("user_id", user.ID.String()),
		zap.Int("role_count", len(user.RoleIDs)))

	response := ToUserResponse(user)
	return &response, nil
}

// Activate activates a user
func (s *UserService) Activate(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, userID, func(u *identity.User) error { return u.Activate() })
}

// Deactivate deactivates a user
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, userID, func(u *identity.User) error { return u.Deactivate() })
}

// Unlock unlocks a locked user
func (s *UserService) Unlock(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, userID, func(u *identity.User) error { return u.Unlock() })
}

// ResetPassword sets a new password without the old one (admin operation)
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if req.MustChangePassword {
		user.ForcePasswordChange()
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.recordUserAction(ctx, user, audit.ActionUpdate)
	s.logger.Info("User password reset", zap.String("user_id", userID.String()))

	return nil
}

// Delete deletes a user
func (s *UserService) Delete(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.recordUserAction(ctx, user, audit.ActionDelete)
	s.logger.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("username", user.Username))

	return nil
}

// Count returns the total number of users in the tenant
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *UserService) transition(ctx context.Context, userID uuid.UUID, fn func(*identity.User) error) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.recordUserAction(ctx, user, audit.ActionUpdate)

	response := ToUserResponse(user)
	return &response, nil
}

func (s *UserService) verifyRolesExist(ctx context.Context, roleIDs []uuid.UUID) error {
	roles, err := s.roleRepo.FindByIDs(ctx, roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(roleIDs) {
		return shared.NewDomainError("ROLE_NOT_FOUND", "One or more roles do not exist")
	}
	return nil
}

func (s *UserService) recordUserAction(ctx context.Context, user *identity.User, action string) {
	log, err := audit.NewAuditLog(user.TenantID, action, "user")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.WithResourceID(user.ID.String()))
}
