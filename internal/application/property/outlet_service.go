package property

import (
	"context"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutletService handles outlet administration operations
type OutletService struct {
	outletRepo   property.OutletRepository
	propertyRepo property.PropertyRepository
	recorder     *auditapp.Recorder
	logger       *zap.Logger
}

// NewOutletService creates a new OutletService
func NewOutletService(
	outletRepo property.OutletRepository,
	propertyRepo property.PropertyRepository,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *OutletService {
	return &OutletService{
		outletRepo:   outletRepo,
		propertyRepo: propertyRepo,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create creates a new outlet under a property
func (s *OutletService) Create(ctx context.Context, tenantID uuid.UUID, req CreateOutletRequest) (*OutletResponse, error) {
	if _, err := s.propertyRepo.FindByID(ctx, req.PropertyID); err != nil {
		return nil, shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")
	}

	exists, err := s.outletRepo.ExistsByCode(ctx, req.PropertyID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Outlet with this code already exists on the property")
	}

	outlet, err := property.NewOutlet(tenantID, req.PropertyID, req.Name, req.Code)
	if err != nil {
		return nil, err
	}

	outlet.CreatedBy = req.CreatedBy

	if err := s.outletRepo.Create(ctx, outlet); err != nil {
		return nil, err
	}

	s.recordOutletAction(ctx, outlet, audit.ActionCreate)
	s.logger.Info("Outlet created",
		zap.String("outlet_id", outlet.ID.String()),
		zap.String("property_id", req.PropertyID.String()),
		zap.String("code", outlet.Code))

	response := ToOutletResponse(outlet)
	return &response, nil
}

// GetByID retrieves an outlet by ID
func (s *OutletService) GetByID(ctx context.Context, outletID uuid.UUID) (*OutletResponse, error) {
	outlet, err := s.outletRepo.FindByID(ctx, outletID)
	if err != nil {
		return nil, err
	}

	response := ToOutletResponse(outlet)
	return &response, nil
}

// ListByProperty returns all outlets of a property
func (s *OutletService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]OutletResponse, error) {
	outlets, err := s.outletRepo.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return ToOutletResponses(outlets), nil
}

// Update updates an outlet's name
func (s *OutletService) Update(ctx context.Context, outletID uuid.UUID, req UpdateOutletRequest) (*OutletResponse, error) {
	outlet, err := s.outletRepo.FindByID(ctx, outletID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := outlet.SetName(*req.Name); err != nil {
			return nil, err
		}
	}

	if err := s.outletRepo.Update(ctx, outlet); err != nil {
		return nil, err
	}

	s.recordOutletAction(ctx, outlet, audit.ActionUpdate)

	response := ToOutletResponse(outlet)
	return &response, nil
}

// Activate activates an outlet
func (s *OutletService) Activate(ctx context.Context, outletID uuid.UUID) (*OutletResponse, error) {
	return s.transition(ctx, outletID, func(o *property.Outlet) error { return o.Activate() })
}

// Deactivate deactivates an outlet
func (s *OutletService) Deactivate(ctx context.Context, outletID uuid.UUID) (*OutletResponse, error) {
	return s.transition(ctx, outletID, func(o *property.Outlet) error { return o.Deactivate() })
}

// Delete deletes an outlet
func (s *OutletService) Delete(ctx context.Context, outletID uuid.UUID) error {
	outlet, err := s.outletRepo.FindByID(ctx, outletID)
	if err != nil {
		return err
	}

	if err := s.outletRepo.Delete(ctx, outletID); err != nil {
		return err
	}

	s.recordOutletAction(ctx, outlet, audit.ActionDelete)
	s.logger.Info("Outlet deleted",
		zap.String("outlet_id", outletID.String()),
		zap.String("code", outlet.Code))

	return nil
}

func (s *OutletService) transition(ctx context.Context, outletID uuid.UUID, fn func(*property.Outlet) error) (*OutletResponse, error) {
	outlet, err := s.outletRepo.FindByID(ctx, outletID)
	if err != nil {
		return nil, err
	}

	if err := fn(outlet); err != nil {
		return nil, err
	}

	if err := s.outletRepo.Update(ctx, outlet); err != nil {
		return nil, err
	}

	s.recordOutletAction(ctx, outlet, audit.ActionUpdate)

	response := ToOutletResponse(outlet)
	return &response, nil
}

func (s *OutletService) recordOutletAction(ctx context.Context, outlet *property.Outlet, action string) {
	log, err := audit.NewAuditLog(outlet.TenantID, action, "outlet")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.
		WithProperty(outlet.PropertyID).
		WithResourceID(outlet.ID.String()))
}
