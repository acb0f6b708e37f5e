package audit

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogListFilter represents filter options for the audit log list
type LogListFilter struct {
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Action     string `form:"action"`
	Resource   string `form:"resource"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Keyword    string `form:"keyword" binding:"max=100"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// LogResponse represents an audit record in API responses
type LogResponse struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	Username   string     `json:"username,omitempty"`
	PropertyID *uuid.UUID `json:"property_id,omitempty"`
	Action     string     `json:"action"`
	Resource   string     `json:"resource"`
	ResourceID string     `json:"resource_id,omitempty"`
	Details    string     `json:"details,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToLogResponse converts a domain AuditLog to a LogResponse
func ToLogResponse(l *audit.AuditLog) LogResponse {
	return LogResponse{
		ID:         l.ID,
		TenantID:   l.TenantID,
		UserID:     l.UserID,
		Username:   l.Username,
		PropertyID: l.PropertyID,
		Action:     l.Action,
		Resource:   l.Resource,
		ResourceID: l.ResourceID,
		Details:    l.Details,
		IPAddress:  l.IPAddress,
		UserAgent:  l.UserAgent,
		CreatedAt:  l.CreatedAt,
	}
}

// ToLogResponses converts a slice of domain AuditLogs
func ToLogResponses(logs []*audit.AuditLog) []LogResponse {
	responses := make([]LogResponse, len(logs))
	for i, l := range logs {
		responses[i] = ToLogResponse(l)
	}
	return responses
}

// QueryService reads the audit trail
type QueryService struct {
	repo     audit.Repository
	recorder *Recorder
	logger   *zap.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(repo audit.Repository, recorder *Recorder, logger *zap.Logger) *QueryService {
	return &QueryService{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

// GetByID retrieves one audit record
func (s *QueryService) GetByID(ctx context.Context, logID uuid.UUID) (*LogResponse, error) {
	log, err := s.repo.FindByID(ctx, logID)
	if err != nil {
		return nil, err
	}

	response := ToLogResponse(log)
	return &response, nil
}

// List retrieves audit records with filtering and pagination
func (s *QueryService) List(ctx context.Context, filter LogListFilter) ([]LogResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	logs, total, err := s.repo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToLogResponses(logs), total, nil
}

// ExportCSV streams the matching audit records as CSV. Pagination on the
// filter is ignored; the export walks every matching row in pages under a
// fixed ascending creation order, so rows appended while the export runs
// cannot shift earlier pages.
func (s *QueryService) ExportCSV(ctx context.Context, tenantID uuid.UUID, filter LogListFilter, w io.Writer) error {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return err
	}
	domainFilter.Page = 1
	domainFilter.PageSize = 500
	domainFilter.SortBy = "created_at"
	domainFilter.SortOrder = "asc"

	writer := csv.NewWriter(w)
	header := []string{"created_at", "username", "action", "resource", "resource_id", "ip_address", "details"}
	if err := writer.Write(header); err != nil {
		return err
	}

	exported := 0
	for {
		logs, total, err := s.repo.FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}

		for _, log := range logs {
			record := []string{
				log.CreatedAt.UTC().Format(time.RFC3339),
				log.Username,
				log.Action,
				log.Resource,
				log.ResourceID,
				log.IPAddress,
				log.Details,
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}

		exported += len(logs)
		if len(logs) == 0 || int64(exported) >= total {
			break
		}
		domainFilter.Page++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	if log, err := audit.NewAuditLog(tenantID, audit.ActionExport, "audit_log"); err == nil {
		s.recorder.Record(ctx, log)
	}
	s.logger.Info("Audit trail exported", zap.Int("rows", exported))

	return nil
}

func toDomainFilter(filter LogListFilter) (audit.Filter, error) {
	domainFilter := audit.NewFilter()

	if filter.UserID != "" {
		id, err := uuid.Parse(filter.UserID)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_USER_ID", "User ID must be a valid UUID")
		}
		domainFilter.UserID = &id
	}
	if filter.PropertyID != "" {
		id, err := uuid.Parse(filter.PropertyID)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_PROPERTY_ID", "Property ID must be a valid UUID")
		}
		domainFilter.PropertyID = &id
	}
	domainFilter.Action = filter.Action
	domainFilter.Resource = filter.Resource
	domainFilter.Keyword = filter.Keyword

	if filter.DateFrom != "" {
		from, err := time.ParseInLocation("2006-01-02", filter.DateFrom, time.UTC)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
		}
		domainFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := time.ParseInLocation("2006-01-02", filter.DateTo, time.UTC)
		if err != nil {
			return domainFilter, shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
		}
		// Include the whole end day
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		domainFilter.DateTo = &end
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

	return domainFilter, nil
}
