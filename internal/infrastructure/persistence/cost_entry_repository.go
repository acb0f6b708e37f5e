package persistence

import (
	"context"
	"time"

	"github.com/fnbcost/backend/internal/domain/cost"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCostEntryRepository persists cost entries through GORM. Entry headers
// and their detail lines are written atomically.
type GormCostEntryRepository struct {
	db *gorm.DB
}

var _ cost.EntryRepository = (*GormCostEntryRepository)(nil)

func NewGormCostEntryRepository(db *gorm.DB) *GormCostEntryRepository {
	return &GormCostEntryRepository{db: db}
}

// Create writes the entry header and its detail lines in one transaction.
func (r *GormCostEntryRepository) Create(ctx context.Context, entry *cost.CostEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CostEntryModelFromDomain(entry)
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return r.insertDetails(tx, entry)
	})
}

// Update writes the entry header guarded by its previous version, then
// replaces the detail lines.
func (r *GormCostEntryRepository) Update(ctx context.Context, entry *cost.CostEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CostEntryModelFromDomain(entry)
		err := checkVersioned(tx.Model(model).
			Where("id = ? AND version = ?", entry.ID, entry.Version-1).
			Select("*").
			Omit("id", "tenant_id", "created_at", "created_by").
			Updates(model))
		if err != nil {
			return err
		}

		if err := tx.Where("entry_id = ?", entry.ID).Delete(&models.CostEntryDetailModel{}).Error; err != nil {
			return err
		}
		return r.insertDetails(tx, entry)
	})
}

// Delete removes the entry and its detail lines in one transaction.
func (r *GormCostEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&models.CostEntryDetailModel{}).Error; err != nil {
			return err
		}
		return checkDeleted(tx.Delete(&models.CostEntryModel{}, "id = ?", id))
	})
}

// FindByID returns the entry with its detail lines loaded.
func (r *GormCostEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*cost.CostEntry, error) {
	var model models.CostEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	entry := model.ToDomain()
	if err := r.loadDetails(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindByPropertyAndDate returns the single entry of one cost type for a
// property and day.
func (r *GormCostEntryRepository) FindByPropertyAndDate(ctx context.Context, propertyID uuid.UUID, costType cost.CostType, date time.Time) (*cost.CostEntry, error) {
	var model models.CostEntryModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND cost_type = ? AND entry_date = ?", propertyID, costType, cost.DateOnly(date)).
		First(&model).Error; err != nil {
		return nil, notFound(err)
	}

	entry := model.ToDomain()
	if err := r.loadDetails(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindAll returns the filtered page of entries together with the unpaged
// total. Detail lines are loaded for every returned entry.
func (r *GormCostEntryRepository) FindAll(ctx context.Context, filter cost.EntryFilter) ([]*cost.CostEntry, int64, error) {
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CostEntryModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entryModels []models.CostEntryModel
	if err := query.
		Order(OrderClause(filter.SortBy, filter.SortOrder, CostEntrySortFields, "entry_date")).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*cost.CostEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
		if err := r.loadDetails(ctx, entries[i]); err != nil {
			return nil, 0, err
		}
	}
	return entries, total, nil
}

// DailyTotals aggregates per-day cost totals over an inclusive date range.
// Days without an entry produce no row.
func (r *GormCostEntryRepository) DailyTotals(ctx context.Context, propertyID uuid.UUID, costType cost.CostType, from, to time.Time) ([]cost.DailyTotal, error) {
	var rows []struct {
		EntryDate time.Time
		Total     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.CostEntryModel{}).
		Select("entry_date, COALESCE(SUM(total), 0) AS total").
		Where("property_id = ? AND cost_type = ?", propertyID, costType).
		Where("entry_date >= ? AND entry_date <= ?", cost.DateOnly(from), cost.DateOnly(to)).
		Group("entry_date").
		Order("entry_date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make([]cost.DailyTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, cost.DailyTotal{
			Date:  cost.DateOnly(row.EntryDate),
			Total: row.Total,
		})
	}
	return totals, nil
}

// CategoryInUse reports whether any detail line references the category.
func (r *GormCostEntryRepository) CategoryInUse(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CostEntryDetailModel{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormCostEntryRepository) insertDetails(tx *gorm.DB, entry *cost.CostEntry) error {
	if len(entry.Details) == 0 {
		return nil
	}

	details := make([]models.CostEntryDetailModel, len(entry.Details))
	for i, d := range entry.Details {
		details[i] = models.CostEntryDetailModel{
			ID:          d.ID,
			EntryID:     entry.ID,
			TenantID:    entry.TenantID,
			CategoryID:  d.CategoryID,
			Cost:        d.Cost,
			Description: d.Description,
			CreatedAt:   time.Now(),
		}
	}
	return tx.Create(&details).Error
}

func (r *GormCostEntryRepository) loadDetails(ctx context.Context, entry *cost.CostEntry) error {
	var detailModels []models.CostEntryDetailModel
	if err := r.db.WithContext(ctx).
		Where("entry_id = ?", entry.ID).
		Order("created_at ASC").
		Find(&detailModels).Error; err != nil {
		return err
	}

	details := make([]cost.CostDetail, len(detailModels))
	for i := range detailModels {
		details[i] = detailModels[i].ToDomain()
	}
	entry.Details = details

	return nil
}

func (r *GormCostEntryRepository) applyFilter(query *gorm.DB, filter cost.EntryFilter) *gorm.DB {
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.OutletID != nil {
		query = query.Where("outlet_id = ?", *filter.OutletID)
	}
	if filter.Type != nil {
		query = query.Where("cost_type = ?", *filter.Type)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", cost.DateOnly(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", cost.DateOnly(*filter.DateTo))
	}
	return query
}
