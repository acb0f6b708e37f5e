package persistence

import (
	"context"
	"time"

	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSummaryRepository persists daily financial summaries through GORM.
type GormSummaryRepository struct {
	db *gorm.DB
}

var _ cost.SummaryRepository = (*GormSummaryRepository)(nil)

func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	return &GormSummaryRepository{db: db}
}

func (r *GormSummaryRepository) Create(ctx context.Context, summary *cost.DailyFinancialSummary) error {
	return r.db.WithContext(ctx).Create(models.DailySummaryModelFromDomain(summary)).Error
}

// Update writes the summary guarded by its previous version.
func (r *GormSummaryRepository) Update(ctx context.Context, summary *cost.DailyFinancialSummary) error {
	model := models.DailySummaryModelFromDomain(summary)
	return checkVersioned(r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", summary.ID, summary.Version-1).
		Select("*").
		Omit("id", "tenant_id", "created_at", "created_by").
		Updates(model))
}

func (r *GormSummaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return checkDeleted(r.db.WithContext(ctx).Delete(&models.DailySummaryModel{}, "id = ?", id))
}

func (r *GormSummaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cost.DailyFinancialSummary, error) {
	var model models.DailySummaryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByPropertyAndDate returns the single summary for a property and day.
func (r *GormSummaryRepository) FindByPropertyAndDate(ctx context.Context, propertyID uuid.UUID, date time.Time) (*cost.DailyFinancialSummary, error) {
	var model models.DailySummaryModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND summary_date = ?", propertyID, cost.DateOnly(date)).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}
	return model.ToDomain(), nil
}

// FindByDateRange returns the property's summaries over an inclusive range in
// date order. Days without a summary produce no element.
func (r *GormSummaryRepository) FindByDateRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]*cost.DailyFinancialSummary, error) {
	var summaryModels []models.DailySummaryModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("summary_date >= ? AND summary_date <= ?", cost.DateOnly(from), cost.DateOnly(to)).
		Order("summary_date ASC").
		Find(&summaryModels).Error; err != nil {
		return nil, err
	}
	return toSummaries(summaryModels), nil
}

// FindAll returns the filtered page of summaries together with the unpaged
// total.
func (r *GormSummaryRepository) FindAll(ctx context.Context, filter cost.EntryFilter) ([]*cost.DailyFinancialSummary, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DailySummaryModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var summaryModels []models.DailySummaryModel
	if err := query.
		Order(OrderClause(filter.SortBy, filter.SortOrder, SummarySortFields, "summary_date")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&summaryModels).Error; err != nil {
		return nil, 0, err
	}

	return toSummaries(summaryModels), total, nil
}

func (r *GormSummaryRepository) applyFilter(query *gorm.DB, filter cost.EntryFilter) *gorm.DB {
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.DateFrom != nil {
		query = query.Where("summary_date >= ?", cost.DateOnly(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("summary_date <= ?", cost.DateOnly(*filter.DateTo))
	}
	return query
}

func toSummaries(summaryModels []models.DailySummaryModel) []*cost.DailyFinancialSummary {
	summaries := make([]*cost.DailyFinancialSummary, len(summaryModels))
	for i := range summaryModels {
		summaries[i] = summaryModels[i].ToDomain()
	}
	return summaries
}
