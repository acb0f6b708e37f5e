package identity

import (
	"context"
	"testing"
	"time"

	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/fnbcost/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// guardContext builds a context carrying the acting user, the way the JWT
// middleware does for real requests
func guardContext(userID uuid.UUID) context.Context {
	ctx, _ := logger.WithUserID(context.Background(), zap.NewNop(), userID.String())
	return ctx
}

func createGrant(t *testing.T, userID, propertyID uuid.UUID, level identity.AccessLevel) *identity.PropertyAccess {
	t.Helper()
	grant, err := identity.NewPropertyAccess(uuid.New(), userID, propertyID, level)
	assert.NoError(t, err)
	return grant
}

func assertAccessDenied(t *testing.T, err error) {
	t.Helper()
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROPERTY_ACCESS_DENIED", domainErr.Code)
}

func TestAccessGuard_RequireWrite_AllowsDataEntryGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	userID := uuid.New()
	propertyID := uuid.New()
	grant := createGrant(t, userID, propertyID, identity.AccessLevelDataEntry)
	accessRepo.On("FindByUserAndProperty", mock.Anything, userID, propertyID).Return(grant, nil)

	assert.NoError(t, guard.RequireWrite(guardContext(userID), propertyID))
}

func TestAccessGuard_RequireWrite_DeniesReadOnlyGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	userID := uuid.New()
	propertyID := uuid.New()
	grant := createGrant(t, userID, propertyID, identity.AccessLevelReadOnly)
	accessRepo.On("FindByUserAndProperty", mock.Anything, userID, propertyID).Return(grant, nil)

	assertAccessDenied(t, guard.RequireWrite(guardContext(userID), propertyID))
}

func TestAccessGuard_RequireWrite_DeniesWithoutGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	userID := uuid.New()
	propertyID := uuid.New()
	accessRepo.On("FindByUserAndProperty", mock.Anything, userID, propertyID).Return(nil, shared.ErrNotFound)

	assertAccessDenied(t, guard.RequireWrite(guardContext(userID), propertyID))
}

func TestAccessGuard_RequireManage_DeniesDataEntryGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	userID := uuid.New()
	propertyID := uuid.New()
	grant := createGrant(t, userID, propertyID, identity.AccessLevelDataEntry)
	accessRepo.On("FindByUserAndProperty", mock.Anything, userID, propertyID).Return(grant, nil)

	assertAccessDenied(t, guard.RequireManage(guardContext(userID), propertyID))
}

func TestAccessGuard_RequireManage_AllowsAdminGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	userID := uuid.New()
	propertyID := uuid.New()
	grant := createGrant(t, userID, propertyID, identity.AccessLevelAdmin)
	accessRepo.On("FindByUserAndProperty", mock.Anything, userID, propertyID).Return(grant, nil)

	assert.NoError(t, guard.RequireManage(guardContext(userID), propertyID))
}

func TestAccessGuard_RequireRead_DeniesRevokedGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	userID := uuid.New()
	propertyID := uuid.New()
	grant := createGrant(t, userID, propertyID, identity.AccessLevelAdmin)
	assert.NoError(t, grant.Revoke())
	accessRepo.On("FindByUserAndProperty", mock.Anything, userID, propertyID).Return(grant, nil)

	assertAccessDenied(t, guard.RequireRead(guardContext(userID), propertyID))
}

func TestAccessGuard_RequireRead_DeniesExpiredGrant(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	userID := uuid.New()
	propertyID := uuid.New()
	grant := createGrant(t, userID, propertyID, identity.AccessLevelManager)
	expired := time.Now().Add(-time.Hour)
	grant.ExpiresAt = &expired
	accessRepo.On("FindByUserAndProperty", mock.Anything, userID, propertyID).Return(grant, nil)

	assertAccessDenied(t, guard.RequireRead(guardContext(userID), propertyID))
}

func TestAccessGuard_DeniesWithoutAuthenticatedUser(t *testing.T) {
	accessRepo := new(MockAccessRepository)
	guard := NewAccessGuard(accessRepo, zap.NewNop())

	assertAccessDenied(t, guard.RequireRead(context.Background(), uuid.New()))
	accessRepo.AssertNotCalled(t, "FindByUserAndProperty", mock.Anything, mock.Anything, mock.Anything)
}
