package audit

import (
	"context"

	"github.com/fnbcost/backend/internal/domain/audit"
	"go.uber.org/zap"
)

// Recorder writes audit records on behalf of the other application services.
// Recording is best effort: a failed write is logged and never fails the
// business operation that triggered it.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{
		repo:   repo,
		logger: logger,
	}
}

// Record persists an audit record
func (r *Recorder) Record(ctx context.Context, log *audit.AuditLog) {
	if log == nil {
		return
	}

	if err := r.repo.Create(ctx, log); err != nil {
		r.logger.Error("Failed to write audit record",
			zap.String("action", log.Action),
			zap.String("resource", log.Resource),
			zap.String("resource_id", log.ResourceID),
			zap.Error(err))
	}
}
