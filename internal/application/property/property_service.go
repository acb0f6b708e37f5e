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

// PropertyService handles property administration operations
type PropertyService struct {
	propertyRepo property.PropertyRepository
	outletRepo   property.OutletRepository
	recorder     *auditapp.Recorder
	logger       *zap.Logger
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(
	propertyRepo property.PropertyRepository,
	outletRepo property.OutletRepository,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		outletRepo:   outletRepo,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create creates a new property
func (s *PropertyService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePropertyRequest) (*PropertyResponse, error) {
	exists, err := s.propertyRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Property with this code already exists")
	}

	prop, err := property.NewProperty(tenantID, req.Name, req.Code, property.PropertyType(req.Type))
	if err != nil {
		return nil, err
	}

	prop.CreatedBy = req.CreatedBy

	if req.Currency != "" {
		if err := prop.SetCurrency(req.Currency); err != nil {
			return nil, err
		}
	}
	if req.TimeZone != "" {
		if err := prop.SetTimeZone(req.TimeZone); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := prop.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.Create(ctx, prop); err != nil {
		return nil, err
	}

	s.recordPropertyAction(ctx, prop, audit.ActionCreate)
	s.logger.Info("Property created",
		zap.String("property_id", prop.ID.String()),
		zap.String("code", prop.Code))

	response := ToPropertyResponse(prop)
	return &response, nil
}

// GetByID retrieves a property by ID
func (s *PropertyService) GetByID(ctx context.Context, propertyID uuid.UUID) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	response := ToPropertyResponse(prop)
	return &response, nil
}

// GetByCode retrieves a property by code
func (s *PropertyService) GetByCode(ctx context.Context, code string) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := ToPropertyResponse(prop)
	return &response, nil
}

// List retrieves properties with filtering and pagination
func (s *PropertyService) List(ctx context.Context, filter PropertyListFilter) ([]PropertyResponse, int64, error) {
	domainFilter := property.NewPropertyFilter()

	if filter.Keyword != "" {
		domainFilter.Keyword = filter.Keyword
	}
	if filter.Type != "" {
		propertyType := property.PropertyType(filter.Type)
		domainFilter.Type = &propertyType
	}
	if filter.IsActive != nil {
		domainFilter.IsActive = filter.IsActive
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

	properties, total, err := s.propertyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPropertyResponses(properties), total, nil
}

// Update updates a property's profile fields
func (s *PropertyService) Update(ctx context.Context, propertyID uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := prop.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Currency != nil {
		if err := prop.SetCurrency(*req.Currency); err != nil {
			return nil, err
		}
	}
	if req.TimeZone != nil {
		if err := prop.SetTimeZone(*req.TimeZone); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := prop.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.Update(ctx, prop); err != nil {
		return nil, err
	}

	s.recordPropertyAction(ctx, prop, audit.ActionUpdate)

	response := ToPropertyResponse(prop)
	return &response, nil
}

// Activate activates a property
func (s *PropertyService) Activate(ctx context.Context, propertyID uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, propertyID, func(p *property.Property) error { return p.Activate() })
}

// Deactivate deactivates a property
func (s *PropertyService) Deactivate(ctx context.Context, propertyID uuid.UUID) (*PropertyResponse, error) {
	return s.transition(ctx, propertyID, func(p *property.Property) error { return p.Deactivate() })
}

// Delete deletes a property. Properties with outlets cannot be deleted.
func (s *PropertyService) Delete(ctx context.Context, propertyID uuid.UUID) error {
	prop, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}

	outlets, err := s.outletRepo.FindByProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	if len(outlets) > 0 {
		return shared.NewDomainError("CANNOT_DELETE", "Property has outlets. Delete the outlets first")
	}

	if err := s.propertyRepo.Delete(ctx, propertyID); err != nil {
		return err
	}

	s.recordPropertyAction(ctx, prop, audit.ActionDelete)
	s.logger.Info("Property deleted",
		zap.String("property_id", propertyID.String()),
		zap.String("code", prop.Code))

	return nil
}

func (s *PropertyService) transition(ctx context.Context, propertyID uuid.UUID, fn func(*property.Property) error) (*PropertyResponse, error) {
	prop, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	if err := fn(prop); err != nil {
		return nil, err
	}

	if err := s.propertyRepo.Update(ctx, prop); err != nil {
		return nil, err
	}

	s.recordPropertyAction(ctx, prop, audit.ActionUpdate)

	response := ToPropertyResponse(prop)
	return &response, nil
}

func (s *PropertyService) recordPropertyAction(ctx context.Context, prop *property.Property, action string) {
	log, err := audit.NewAuditLog(prop.TenantID, action, "property")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.
		WithProperty(prop.ID).
		WithResourceID(prop.ID.String()))
}
