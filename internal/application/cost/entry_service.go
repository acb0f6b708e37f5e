package cost

import (
	"context"
	"errors"
	"time"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	identityapp "github.com/fnbcost/backend/internal/application/identity"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/fnbcost/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EntryService handles daily cost entry operations
type EntryService struct {
	entryRepo    cost.EntryRepository
	summaryRepo  cost.SummaryRepository
	categoryRepo property.CategoryRepository
	outletRepo   property.OutletRepository
	propertyRepo property.PropertyRepository
	access       *identityapp.AccessGuard
	recorder     *auditapp.Recorder
	logger       *zap.Logger
}

// NewEntryService creates a new EntryService
func NewEntryService(
	entryRepo cost.EntryRepository,
	summaryRepo cost.SummaryRepository,
	categoryRepo property.CategoryRepository,
	outletRepo property.OutletRepository,
	propertyRepo property.PropertyRepository,
	access *identityapp.AccessGuard,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *EntryService {
	return &EntryService{
		entryRepo:    entryRepo,
		summaryRepo:  summaryRepo,
		categoryRepo: categoryRepo,
		outletRepo:   outletRepo,
		propertyRepo: propertyRepo,
		access:       access,
		recorder:     recorder,
		logger:       logger,
	}
}

// Upsert records the costs for one property, type and date. The first
// submission for a day creates the entry; later submissions replace its
// lines. The day's financial summary is recomputed afterwards.
func (s *EntryService) Upsert(ctx context.Context, tenantID uuid.UUID, req UpsertEntryRequest) (resp *EntryResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cost_entry", "upsert")
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	entryDate, err := ParseEntryDate(req.EntryDate)
	if err != nil {
		return nil, err
	}

	costType := cost.CostType(req.Type)

	if err := s.access.RequireWrite(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	if _, err := s.propertyRepo.FindByID(ctx, req.PropertyID); err != nil {
		return nil, shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")
	}

	if req.OutletID != nil {
		if err := s.verifyOutlet(ctx, req.PropertyID, *req.OutletID); err != nil {
			return nil, err
		}
	}

	details, err := s.buildDetails(ctx, costType, req.Details)
	if err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindByPropertyAndDate(ctx, req.PropertyID, costType, entryDate)
	created := false
	switch {
	case err == nil:
		// Existing day, replace the lines
	case errors.Is(err, shared.ErrNotFound):
		entry, err = s.newEntry(tenantID, req.PropertyID, costType, entryDate)
		if err != nil {
			return nil, err
		}
		entry.CreatedBy = req.CreatedBy
		created = true
	default:
		return nil, err
	}

	if err := entry.SetDetails(details); err != nil {
		return nil, err
	}
	if err := entry.SetNotes(req.Notes); err != nil {
		return nil, err
	}
	if req.OutletID != nil {
		if err := entry.SetOutlet(*req.OutletID); err != nil {
			return nil, err
		}
	} else {
		entry.ClearOutlet()
	}

	if created {
		err = s.entryRepo.Create(ctx, entry)
	} else {
		err = s.entryRepo.Update(ctx, entry)
	}
	if err != nil {
		return nil, err
	}

	if err := s.applyToSummary(ctx, entry.TenantID, entry.PropertyID, entry.EntryDate, costType, entry.Total, req.CreatedBy); err != nil {
		return nil, err
	}

	action := audit.ActionUpdate
	if created {
		action = audit.ActionCreate
	}
	s.recordEntryAction(ctx, entry, action)

	telemetry.SetAttribute(span, "entry.id", entry.ID.String())
	telemetry.SetOK(span)

	s.logger.Info("Cost entry recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("property_id", entry.PropertyID.String()),
		zap.String("type", req.Type),
		zap.String("entry_date", req.EntryDate),
		zap.Bool("created", created))

	response := ToEntryResponse(entry)
	return &response, nil
}

// GetByID retrieves a cost entry by ID
func (s *EntryService) GetByID(ctx context.Context, entryID uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireRead(ctx, entry.PropertyID); err != nil {
		return nil, err
	}

	response := ToEntryResponse(entry)
	return &response, nil
}

// GetByDate retrieves the entry of one type for a property and day
func (s *EntryService) GetByDate(ctx context.Context, propertyID uuid.UUID, costType string, date string) (*EntryResponse, error) {
	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	day, err := ParseEntryDate(date)
	if err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindByPropertyAndDate(ctx, propertyID, cost.CostType(costType), day)
	if err != nil {
		return nil, err
	}

	response := ToEntryResponse(entry)
	return &response, nil
}

// List retrieves cost entries with filtering and pagination
func (s *EntryService) List(ctx context.Context, filter EntryListFilter) ([]EntryResponse, int64, error) {
	domainFilter := cost.NewEntryFilter()

	if filter.PropertyID != "" {
		id, err := uuid.Parse(filter.PropertyID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID must be a valid UUID")
		}
		// A property filter needs a grant on that property. Tenant-wide
		// listing stays behind the role permission alone.
		if err := s.access.RequireRead(ctx, id); err != nil {
			return nil, 0, err
		}
		domainFilter.PropertyID = &id
	}
	if filter.OutletID != "" {
		id, err := uuid.Parse(filter.OutletID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_OUTLET_ID", "Outlet ID must be a valid UUID")
		}
		domainFilter.OutletID = &id
	}
	if filter.Type != "" {
		costType := cost.CostType(filter.Type)
		domainFilter.Type = &costType
	}
	if filter.DateFrom != "" {
		from, err := ParseEntryDate(filter.DateFrom)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := ParseEntryDate(filter.DateTo)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.DateTo = &to
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

	entries, total, err := s.entryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToEntryResponses(entries), total, nil
}

// Delete deletes a cost entry and zeroes the matching cost in the day's
// summary.
func (s *EntryService) Delete(ctx context.Context, entryID uuid.UUID) error {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}

	if err := s.access.RequireWrite(ctx, entry.PropertyID); err != nil {
		return err
	}

	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		return err
	}

	if err := s.zeroSummaryCost(ctx, entry.PropertyID, entry.EntryDate, entry.Type); err != nil {
		return err
	}

	s.recordEntryAction(ctx, entry, audit.ActionDelete)
	s.logger.Info("Cost entry deleted",
		zap.String("entry_id", entryID.String()),
		zap.String("property_id", entry.PropertyID.String()),
		zap.String("type", string(entry.Type)))

	return nil
}

func (s *EntryService) newEntry(tenantID, propertyID uuid.UUID, costType cost.CostType, entryDate time.Time) (*cost.CostEntry, error) {
	if costType == cost.CostTypeBeverage {
		return cost.NewBeverageCostEntry(tenantID, propertyID, entryDate)
	}
	return cost.NewFoodCostEntry(tenantID, propertyID, entryDate)
}

// verifyOutlet checks that the outlet exists, is active and belongs to the
// property the entry is booked against.
func (s *EntryService) verifyOutlet(ctx context.Context, propertyID, outletID uuid.UUID) error {
	outlet, err := s.outletRepo.FindByID(ctx, outletID)
	if err != nil {
		return shared.NewDomainError("OUTLET_NOT_FOUND", "Outlet not found")
	}
	if outlet.PropertyID != propertyID {
		return shared.NewDomainError("OUTLET_MISMATCH", "Outlet does not belong to the property")
	}
	if !outlet.IsActive {
		return shared.NewDomainError("OUTLET_INACTIVE", "Outlet is deactivated")
	}
	return nil
}

// buildDetails validates each line's category and converts the request
// lines to domain details. Categories must exist, be active and match the
// entry's cost type.
func (s *EntryService) buildDetails(ctx context.Context, costType cost.CostType, lines []DetailRequest) ([]cost.CostDetail, error) {
	details := make([]cost.CostDetail, 0, len(lines))
	seen := make(map[uuid.UUID]bool, len(lines))

	for _, line := range lines {
		if seen[line.CategoryID] {
			return nil, shared.NewDomainError("DUPLICATE_CATEGORY", "Category appears more than once in the entry")
		}
		seen[line.CategoryID] = true

		category, err := s.categoryRepo.FindByID(ctx, line.CategoryID)
		if err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found: "+line.CategoryID.String())
		}
		if !category.IsActive {
			return nil, shared.NewDomainError("CATEGORY_INACTIVE", "Category is deactivated: "+category.Name)
		}
		if string(category.Type) != string(costType) {
			return nil, shared.NewDomainError("CATEGORY_TYPE_MISMATCH", "Category type does not match the entry type: "+category.Name)
		}

		details = append(details, cost.CostDetail{
			CategoryID:  line.CategoryID,
			Cost:        line.Cost,
			Description: line.Description,
		})
	}

	return details, nil
}

// applyToSummary folds the entry total into the day's financial summary,
// creating the summary when the day has none yet.
func (s *EntryService) applyToSummary(ctx context.Context, tenantID, propertyID uuid.UUID, date time.Time, costType cost.CostType, total decimal.Decimal, createdBy *uuid.UUID) error {
	summary, err := s.summaryRepo.FindByPropertyAndDate(ctx, propertyID, date)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		summary, err = cost.NewDailyFinancialSummary(tenantID, propertyID, date)
		if err != nil {
			return err
		}
		summary.CreatedBy = createdBy
		if err := summary.ApplyEntryTotal(costType, total); err != nil {
			return err
		}
		return s.summaryRepo.Create(ctx, summary)
	}

	if err := summary.ApplyEntryTotal(costType, total); err != nil {
		return err
	}
	return s.summaryRepo.Update(ctx, summary)
}

// zeroSummaryCost removes a deleted entry's contribution from the day's
// summary. A missing summary is fine, there is nothing to correct.
func (s *EntryService) zeroSummaryCost(ctx context.Context, propertyID uuid.UUID, date time.Time, costType cost.CostType) error {
	summary, err := s.summaryRepo.FindByPropertyAndDate(ctx, propertyID, date)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := summary.ApplyEntryTotal(costType, decimal.Zero); err != nil {
		return err
	}
	return s.summaryRepo.Update(ctx, summary)
}

func (s *EntryService) recordEntryAction(ctx context.Context, entry *cost.CostEntry, action string) {
	log, err := audit.NewAuditLog(entry.TenantID, action, "cost_entry")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.
		WithProperty(entry.PropertyID).
		WithResourceID(entry.ID.String()))
}
