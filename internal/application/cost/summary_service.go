package cost

import (
	"context"
	"errors"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	identityapp "github.com/fnbcost/backend/internal/application/identity"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SummaryService handles daily financial summary operations
type SummaryService struct {
	summaryRepo  cost.SummaryRepository
	entryRepo    cost.EntryRepository
	propertyRepo property.PropertyRepository
	access       *identityapp.AccessGuard
	recorder     *auditapp.Recorder
	logger       *zap.Logger
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	summaryRepo cost.SummaryRepository,
	entryRepo cost.EntryRepository,
	propertyRepo property.PropertyRepository,
	access *identityapp.AccessGuard,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		summaryRepo:  summaryRepo,
		entryRepo:    entryRepo,
		propertyRepo: propertyRepo,
		access:       access,
		recorder:     recorder,
		logger:       logger,
	}
}

// Upsert records a day's revenue, budget figures and adjustments. The
// first submission for a day creates the summary and folds in the cost
// totals already booked by the day's entries. Later submissions update
// the figures in place.
func (s *SummaryService) Upsert(ctx context.Context, tenantID uuid.UUID, req UpsertSummaryRequest) (*SummaryResponse, error) {
	summaryDate, err := ParseEntryDate(req.SummaryDate)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireWrite(ctx, req.PropertyID); err != nil {
		return nil, err
	}

	if _, err := s.propertyRepo.FindByID(ctx, req.PropertyID); err != nil {
		return nil, shared.NewDomainError("PROPERTY_NOT_FOUND", "Property not found")
	}

	summary, err := s.summaryRepo.FindByPropertyAndDate(ctx, req.PropertyID, summaryDate)
	created := false
	switch {
	case err == nil:
		// Existing day, update the figures
	case errors.Is(err, shared.ErrNotFound):
		summary, err = cost.NewDailyFinancialSummary(tenantID, req.PropertyID, summaryDate)
		if err != nil {
			return nil, err
		}
		summary.CreatedBy = req.CreatedBy
		if err := s.foldEntryTotals(ctx, summary); err != nil {
			return nil, err
		}
		created = true
	default:
		return nil, err
	}

	if err := summary.SetActualRevenue(req.ActualFoodRevenue, req.ActualBeverageRevenue); err != nil {
		return nil, err
	}
	if err := summary.SetBudget(req.BudgetFoodRevenue, req.BudgetBeverageRevenue, req.BudgetFoodCostPct, req.BudgetBeverageCostPct); err != nil {
		return nil, err
	}
	if err := summary.SetAdjustments(req.EntertainmentFood, req.EntertainmentBeverage, req.OfficerCheckFood, req.OfficerCheckBeverage); err != nil {
		return nil, err
	}
	if err := summary.SetNotes(req.Notes); err != nil {
		return nil, err
	}

	if created {
		err = s.summaryRepo.Create(ctx, summary)
	} else {
		err = s.summaryRepo.Update(ctx, summary)
	}
	if err != nil {
		return nil, err
	}

	action := audit.ActionUpdate
	if created {
		action = audit.ActionCreate
	}
	s.recordSummaryAction(ctx, summary, action)

	s.logger.Info("Daily summary recorded",
		zap.String("summary_id", summary.ID.String()),
		zap.String("property_id", summary.PropertyID.String()),
		zap.String("summary_date", req.SummaryDate),
		zap.Bool("created", created))

	response := ToSummaryResponse(summary)
	return &response, nil
}

// GetByID retrieves a summary by ID
func (s *SummaryService) GetByID(ctx context.Context, summaryID uuid.UUID) (*SummaryResponse, error) {
	summary, err := s.summaryRepo.FindByID(ctx, summaryID)
	if err != nil {
		return nil, err
	}

	if err := s.access.RequireRead(ctx, summary.PropertyID); err != nil {
		return nil, err
	}

	response := ToSummaryResponse(summary)
	return &response, nil
}

// GetByDate retrieves the summary for a property and day
func (s *SummaryService) GetByDate(ctx context.Context, propertyID uuid.UUID, date string) (*SummaryResponse, error) {
	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	day, err := ParseEntryDate(date)
	if err != nil {
		return nil, err
	}

	summary, err := s.summaryRepo.FindByPropertyAndDate(ctx, propertyID, day)
	if err != nil {
		return nil, err
	}

	response := ToSummaryResponse(summary)
	return &response, nil
}

// Range returns the summaries of a property over an inclusive date range,
// ordered by date.
func (s *SummaryService) Range(ctx context.Context, propertyID uuid.UUID, dateFrom, dateTo string) ([]SummaryResponse, error) {
	if err := s.access.RequireRead(ctx, propertyID); err != nil {
		return nil, err
	}

	from, err := ParseEntryDate(dateFrom)
	if err != nil {
		return nil, err
	}
	to, err := ParseEntryDate(dateTo)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date cannot be before start date")
	}

	summaries, err := s.summaryRepo.FindByDateRange(ctx, propertyID, from, to)
	if err != nil {
		return nil, err
	}

	return ToSummaryResponses(summaries), nil
}

// List retrieves summaries with filtering and pagination
func (s *SummaryService) List(ctx context.Context, filter SummaryListFilter) ([]SummaryResponse, int64, error) {
	domainFilter := cost.NewEntryFilter()
	domainFilter.SortBy = "summary_date"

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

	summaries, total, err := s.summaryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSummaryResponses(summaries), total, nil
}

// Delete deletes a daily summary
func (s *SummaryService) Delete(ctx context.Context, summaryID uuid.UUID) error {
	summary, err := s.summaryRepo.FindByID(ctx, summaryID)
	if err != nil {
		return err
	}

	if err := s.access.RequireWrite(ctx, summary.PropertyID); err != nil {
		return err
	}

	if err := s.summaryRepo.Delete(ctx, summaryID); err != nil {
		return err
	}

	s.recordSummaryAction(ctx, summary, audit.ActionDelete)
	s.logger.Info("Daily summary deleted",
		zap.String("summary_id", summaryID.String()),
		zap.String("property_id", summary.PropertyID.String()))

	return nil
}

// foldEntryTotals copies the day's already-booked entry totals onto a
// freshly created summary.
func (s *SummaryService) foldEntryTotals(ctx context.Context, summary *cost.DailyFinancialSummary) error {
	for _, costType := range []cost.CostType{cost.CostTypeFood, cost.CostTypeBeverage} {
		entry, err := s.entryRepo.FindByPropertyAndDate(ctx, summary.PropertyID, costType, summary.SummaryDate)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		if err := summary.ApplyEntryTotal(costType, entry.Total); err != nil {
			return err
		}
	}
	return nil
}

func (s *SummaryService) recordSummaryAction(ctx context.Context, summary *cost.DailyFinancialSummary, action string) {
	log, err := audit.NewAuditLog(summary.TenantID, action, "daily_summary")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.
		WithProperty(summary.PropertyID).
		WithResourceID(summary.ID.String()))
}
