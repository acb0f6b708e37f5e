package identity

import (
	"context"
	"testing"

	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newUserService(userRepo *MockUserRepository, roleRepo *MockRoleRepository) *UserService {
	recorder, _ := newTestRecorder()
	return NewUserService(userRepo, roleRepo, recorder, zap.NewNop())
}

// Tests for UserService.Create
func TestUserService_Create_Success(t *testing.T) {
	userRepo := new(MockUserRepository)
	roleRepo := new(MockRoleRepository)
	service := newUserService(userRepo, roleRepo)

	tenantID := uuid.New()
	roleID := uuid.New()
	role, err := identity.NewRole(tenantID, "cost_controller", "Cost Controller")
	assert.NoError(t, err)
	role.ID = roleID

	userRepo.On("ExistsByUsername", mock.Anything, "bob").Return(false, nil)
	userRepo.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(false, nil)
	roleRepo.On("FindByIDs", mock.Anything, []uuid.UUID{roleID}).Return([]*identity.Role{role}, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)
	userRepo.On("SaveUserRoles", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	result, err := service.Create(context.Background(), tenantID, CreateUserRequest{
		Username: "bob",
		Password: testPassword,
		Email:    "bob@example.com",
		RoleIDs:  []uuid.UUID{roleID},
		Active:   true,
	})

	assert.NoError(t, err)
	assert.Equal(t, "bob", result.Username)
	assert.Equal(t, string(identity.UserStatusActive), result.Status)
	assert.Equal(t, []uuid.UUID{roleID}, result.RoleIDs)
	userRepo.AssertExpectations(t)
}

func TestUserService_Create_DuplicateUsername(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockRoleRepository))

	userRepo.On("ExistsByUsername", mock.Anything, "bob").Return(true, nil)

	result, err := service.Create(context.Background(), uuid.New(), CreateUserRequest{
		Username: "bob",
		Password: testPassword,
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	roleRepo := new(MockRoleRepository)
	service := newUserService(userRepo, roleRepo)

	roleID := uuid.New()
	userRepo.On("ExistsByUsername", mock.Anything, "bob").Return(false, nil)
	roleRepo.On("FindByIDs", mock.Anything, []uuid.UUID{roleID}).Return([]*identity.Role{}, nil)

	result, err := service.Create(context.Background(), uuid.New(), CreateUserRequest{
		Username: "bob",
		Password: testPassword,
		RoleIDs:  []uuid.UUID{roleID},
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ROLE_NOT_FOUND", domainErr.Code)
}

// Tests for UserService.AssignRoles
func TestUserService_AssignRoles_ReplacesRoleSet(t *testing.T) {
	userRepo := new(MockUserRepository)
	roleRepo := new(MockRoleRepository)
	service := newUserService(userRepo, roleRepo)

	tenantID := uuid.New()
	user := createActiveUser(t, tenantID)
	oldRoleID := uuid.New()
	assert.NoError(t, user.SetRoles([]uuid.UUID{oldRoleID}))

	newRoleID := uuid.New()
	role, err := identity.NewRole(tenantID, "viewer", "Viewer")
	assert.NoError(t, err)
	role.ID = newRoleID

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	roleRepo.On("FindByIDs", mock.Anything, []uuid.UUID{newRoleID}).Return([]*identity.Role{role}, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)
	userRepo.On("SaveUserRoles", mock.Anything, user).Return(nil)

	result, err := service.AssignRoles(context.Background(), user.ID, AssignRolesRequest{RoleIDs: []uuid.UUID{newRoleID}})

	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{newRoleID}, result.RoleIDs)
	userRepo.AssertExpectations(t)
}

// Tests for UserService.ResetPassword
func TestUserService_ResetPassword_ForcesChange(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockRoleRepository))

	user := createActiveUser(t, uuid.New())
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	err := service.ResetPassword(context.Background(), user.ID, ResetPasswordRequest{
		NewPassword:        "Temp0rary-pass!",
		MustChangePassword: true,
	})

	assert.NoError(t, err)
	assert.True(t, user.VerifyPassword("Temp0rary-pass!"))
	assert.True(t, user.MustChangePassword)
	userRepo.AssertExpectations(t)
}

// Tests for user lifecycle transitions
func TestUserService_Deactivate_ThenActivate(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockRoleRepository))

	user := createActiveUser(t, uuid.New())
	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, user).Return(nil)

	result, err := service.Deactivate(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusDeactivated), result.Status)

	result, err = service.Activate(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusActive), result.Status)
}

// Tests for UserService.Delete
func TestUserService_Delete_UnknownUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := newUserService(userRepo, new(MockRoleRepository))

	userID := uuid.New()
	userRepo.On("FindByID", mock.Anything, userID).Return(nil, shared.ErrNotFound)

	err := service.Delete(context.Background(), userID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
