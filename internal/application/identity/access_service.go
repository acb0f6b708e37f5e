package identity

import (
	"context"
	"errors"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/identity"
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessService handles property access grants
type AccessService struct {
	accessRepo   identity.PropertyAccessRepository
	userRepo     identity.UserRepository
	propertyRepo property.PropertyRepository
	recorder     *auditapp.Recorder
	logger       *zap.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(
	accessRepo identity.PropertyAccessRepository,
	userRepo identity.UserRepository,
	propertyRepo property.PropertyRepository,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *AccessService {
	return &AccessService{
		accessRepo:   accessRepo,
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		recorder:     recorder,
		logger:       logger,
	}
}

// Grant grants a user access to a property. Granting for a user who already
// holds a grant on the property updates the existing grant instead.
func (s *AccessService) Grant(ctx context.Context, tenantID uuid.UUID, req GrantAccessRequest) (*AccessResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if _, err := s.propertyRepo.FindByID(ctx, req.PropertyID); err != nil {
		return nil, shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")
	}

	level := identity.AccessLevel(req.Level)

	existing, err := s.accessRepo.FindByUserAndProperty(ctx, req.UserID, req.PropertyID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if !existing.IsActive {
			if err := existing.Restore(); err != nil {
				return nil, err
			}
		}
		if existing.Level != level {
			if err := existing.ChangeLevel(level); err != nil {
				return nil, err
			}
		}
		if req.ExpiresAt != nil {
			if err := existing.SetExpiry(*req.ExpiresAt); err != nil {
				return nil, err
			}
		}
		if req.GrantedBy != nil {
			existing.SetGrantedBy(*req.GrantedBy)
		}

		if err := s.accessRepo.Update(ctx, existing); err != nil {
			return nil, err
		}

		s.recordAccessAction(ctx, existing, audit.ActionGrant)

		response := ToAccessResponse(existing)
		return &response, nil
	}

	access, err := identity.NewPropertyAccess(tenantID, req.UserID, req.PropertyID, level)
	if err != nil {
		return nil, err
	}

	if req.GrantedBy != nil {
		access.SetGrantedBy(*req.GrantedBy)
		access.CreatedBy = req.GrantedBy
	}
	if req.ExpiresAt != nil {
		if err := access.SetExpiry(*req.ExpiresAt); err != nil {
			return nil, err
		}
	}

	if err := s.accessRepo.Create(ctx, access); err != nil {
		return nil, err
	}

	s.recordAccessAction(ctx, access, audit.ActionGrant)
	s.logger.Info("Property access granted",
		zap.String("user_id", req.UserID.String()),
		zap.String("property_id", req.PropertyID.String()),
		zap.String("level", req.Level))

	response := ToAccessResponse(access)
	return &response, nil
}

// GetByID retrieves an access grant by ID
func (s *AccessService) GetByID(ctx context.Context, accessID uuid.UUID) (*AccessResponse, error) {
	access, err := s.accessRepo.FindByID(ctx, accessID)
	if err != nil {
		return nil, err
	}

	response := ToAccessResponse(access)
	return &response, nil
}

// ListByUser returns all grants for a user
func (s *AccessService) ListByUser(ctx context.Context, userID uuid.UUID) ([]AccessResponse, error) {
	grants, err := s.accessRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToAccessResponses(grants), nil
}

// ListByProperty returns all grants on a property
func (s *AccessService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]AccessResponse, error) {
	grants, err := s.accessRepo.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return ToAccessResponses(grants), nil
}

// ChangeLevel changes the level of an existing grant
func (s *AccessService) ChangeLevel(ctx context.Context, accessID uuid.UUID, req ChangeAccessLevelRequest) (*AccessResponse, error) {
	access, err := s.accessRepo.FindByID(ctx, accessID)
	if err != nil {
		return nil, err
	}

	if err := access.ChangeLevel(identity.AccessLevel(req.Level)); err != nil {
		return nil, err
	}

	if err := s.accessRepo.Update(ctx, access); err != nil {
		return nil, err
	}

	s.recordAccessAction(ctx, access, audit.ActionUpdate)

	response := ToAccessResponse(access)
	return &response, nil
}

// Revoke revokes an access grant
func (s *AccessService) Revoke(ctx context.Context, accessID uuid.UUID) error {
	access, err := s.accessRepo.FindByID(ctx, accessID)
	if err != nil {
		return err
	}

	if err := access.Revoke(); err != nil {
		return err
	}

	if err := s.accessRepo.Update(ctx, access); err != nil {
		return err
	}

	s.recordAccessAction(ctx, access, audit.ActionRevoke)
	s.logger.Info("Property access revoked",
		zap.String("user_id", access.UserID.String()),
		zap.String("property_id", access.PropertyID.String()))

	return nil
}

// AccessibleProperties returns the IDs of properties the user can access
func (s *AccessService) AccessibleProperties(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.accessRepo.PropertyIDsForUser(ctx, userID)
}

func (s *AccessService) recordAccessAction(ctx context.Context, access *identity.PropertyAccess, action string) {
	log, err := audit.NewAuditLog(access.TenantID, action, "property_access")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.
		WithProperty(access.PropertyID).
		WithResourceID(access.ID.String()))
}
