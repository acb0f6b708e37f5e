package identity

import (
	"context"
	"testing"

	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newAccessService(
	accessRepo *MockAccessRepository,
	userRepo *MockUserRepository,
	propertyRepo *MockPropertyRepository,
) *AccessService {
	recorder, _ := newTestRecorder()
	return NewAccessService(accessRepo, userRepo, propertyRepo, recorder, zap.NewNop())
}

func createAccessTestProperty(t *testing.T, tenantID uuid.UUID) *property.Property {
	t.Helper()
	prop, err := property.NewProperty(tenantID, "Harbor Hotel", "HH01", property.PropertyTypeHotel)
	assert.NoError(t, err)
	return prop
}

// Tests for AccessService.Grant
func TestAccessService_Grant_NewGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	userRepo := new(MockUserRepository)
	propertyRepo := new(MockPropertyRepository)
	service := newAccessService(accessRepo, userRepo, propertyRepo)

	tenantID := uuid.New()
	user := createActiveUser(t, tenantID)
	prop := createAccessTestProperty(t, tenantID)

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	propertyRepo.On("FindByID", mock.Anything, prop.ID).Return(prop, nil)
	accessRepo.On("FindByUserAndProperty", mock.Anything, user.ID, prop.ID).Return(nil, shared.ErrNotFound)
	accessRepo.On("Create", mock.Anything, mock.AnythingOfType("*identity.PropertyAccess")).Return(nil)

	granter := uuid.New()
	result, err := service.Grant(context.Background(), tenantID, GrantAccessRequest{
		UserID:     user.ID,
		PropertyID: prop.ID,
		Level:      string(identity.AccessLevelDataEntry),
		GrantedBy:  &granter,
	})

	assert.NoError(t, err)
	assert.Equal(t, string(identity.AccessLevelDataEntry), result.Level)
	assert.True(t, result.IsActive)
	assert.Equal(t, &granter, result.GrantedBy)
	accessRepo.AssertExpectations(t)
}

func TestAccessService_Grant_ExistingGrantIsUpdated(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	userRepo := new(MockUserRepository)
	propertyRepo := new(MockPropertyRepository)
	service := newAccessService(accessRepo, userRepo, propertyRepo)

	tenantID := uuid.New()
	user := createActiveUser(t, tenantID)
	prop := createAccessTestProperty(t, tenantID)

	existing, err := identity.NewPropertyAccess(tenantID, user.ID, prop.ID, identity.AccessLevelReadOnly)
	assert.NoError(t, err)
	assert.NoError(t, existing.Revoke())

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	propertyRepo.On("FindByID", mock.Anything, prop.ID).Return(prop, nil)
	accessRepo.On("FindByUserAndProperty", mock.Anything, user.ID, prop.ID).Return(existing, nil)
	accessRepo.On("Update", mock.Anything, existing).Return(nil)

	result, err := service.Grant(context.Background(), tenantID, GrantAccessRequest{
		UserID:     user.ID,
		PropertyID: prop.ID,
		Level:      string(identity.AccessLevelManager),
	})

	// Re-granting restores the revoked grant at the new level
	assert.NoError(t, err)
	assert.True(t, result.IsActive)
	assert.Equal(t, string(identity.AccessLevelManager), result.Level)
	accessRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccessService_Grant_UnknownProperty(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	userRepo := new(MockUserRepository)
	propertyRepo := new(MockPropertyRepository)
	service := newAccessService(accessRepo, userRepo, propertyRepo)

	user := createActiveUser(t, uuid.New())
	propertyID := uuid.New()

	userRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	propertyRepo.On("FindByID", mock.Anything, propertyID).Return(nil, shared.ErrNotFound)

	result, err := service.Grant(context.Background(), uuid.New(), GrantAccessRequest{
		UserID:     user.ID,
		PropertyID: propertyID,
		Level:      string(identity.AccessLevelReadOnly),
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROPERTY_NOT_FOUND", domainErr.Code)
}

// Tests for AccessService.ChangeLevel
func TestAccessService_ChangeLevel(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	service := newAccessService(accessRepo, new(MockUserRepository), new(MockPropertyRepository))

	access, err := identity.NewPropertyAccess(uuid.New(), uuid.New(), uuid.New(), identity.AccessLevelDataEntry)
	assert.NoError(t, err)

	accessRepo.On("FindByID", mock.Anything, access.ID).Return(access, nil)
	accessRepo.On("Update", mock.Anything, access).Return(nil)

	result, err := service.ChangeLevel(context.Background(), access.ID, ChangeAccessLevelRequest{
		Level: string(identity.AccessLevelAdmin),
	})

	assert.NoError(t, err)
	assert.Equal(t, string(identity.AccessLevelAdmin), result.Level)
}

// Tests for AccessService.Revoke
func TestAccessService_Revoke(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	service := newAccessService(accessRepo, new(MockUserRepository), new(MockPropertyRepository))

	access, err := identity.NewPropertyAccess(uuid.New(), uuid.New(), uuid.New(), identity.AccessLevelManager)
	assert.NoError(t, err)

	accessRepo.On("FindByID", mock.Anything, access.ID).Return(access, nil)
	accessRepo.On("Update", mock.Anything, access).Return(nil)

	assert.NoError(t, service.Revoke(context.Background(), access.ID))
	assert.False(t, access.IsActive)

	// Revoking twice is rejected
	err = service.Revoke(context.Background(), access.ID)
	assert.Error(t, err)
}

// Tests for AccessService.AccessibleProperties
func TestAccessService_AccessibleProperties(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	service := newAccessService(accessRepo, new(MockUserRepository), new(MockPropertyRepository))

	userID := uuid.New()
	propertyIDs := []uuid.UUID{uuid.New(), uuid.New()}
	accessRepo.On("PropertyIDsForUser", mock.Anything, userID).Return(propertyIDs, nil)

	result, err := service.AccessibleProperties(context.Background(), userID)

	assert.NoError(t, err)
	assert.Equal(t, propertyIDs, result)
}
