package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/fnbcost/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupCategoryTestDB creates an in-memory SQLite database for testing
func setupCategoryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.CategoryModel{}, &models.CostEntryDetailModel{})
	require.NoError(t, err)

	return db
}

func createTestCategory(t *testing.T, tenantID uuid.UUID, categoryType property.CategoryType, name string) *property.Category {
	t.Helper()
	category, err := property.NewCategory(tenantID, categoryType, name)
	require.NoError(t, err)
	return category
}

func TestGormCategoryRepository_CreateAndFindByID(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	category := createTestCategory(t, tenantID, property.CategoryTypeFood, "Dairy")
	require.NoError(t, category.SetDescription("Milk, cheese, butter"))

	require.NoError(t, repo.Create(ctx, category))

	retrieved, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, retrieved.ID)
	assert.Equal(t, tenantID, retrieved.TenantID)
	assert.Equal(t, property.CategoryTypeFood, retrieved.Type)
	assert.Equal(t, "Dairy", retrieved.Name)
	assert.Equal(t, "Milk, cheese, butter", retrieved.Description)
	assert.True(t, retrieved.IsActive)
}

func TestGormCategoryRepository_FindByID_NotFound(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)

	retrieved, err := repo.FindByID(context.Background(), uuid.New())
	assert.Nil(t, retrieved)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormCategoryRepository_Update_OptimisticLocking(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	category := createTestCategory(t, uuid.New(), property.CategoryTypeBeverage, "Spirits")
	require.NoError(t, repo.Create(ctx, category))

	require.NoError(t, category.SetName("Spirits & Liqueurs"))
	require.NoError(t, repo.Update(ctx, category))

	retrieved, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spirits & Liqueurs", retrieved.Name)
	assert.Equal(t, 2, retrieved.Version)

	// A stale version is rejected
	err = repo.Update(ctx, category)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormCategoryRepository_FindByType(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	for _, name := range []string{"Meat", "Dairy", "Produce"} {
		require.NoError(t, repo.Create(ctx, createTestCategory(t, tenantID, property.CategoryTypeFood, name)))
	}
	require.NoError(t, repo.Create(ctx, createTestCategory(t, tenantID, property.CategoryTypeBeverage, "Wine")))

	food, err := repo.FindByType(ctx, property.CategoryTypeFood)
	require.NoError(t, err)
	require.Len(t, food, 3)

	// Ordered by name
	assert.Equal(t, "Dairy", food[0].Name)
	assert.Equal(t, "Meat", food[1].Name)
	assert.Equal(t, "Produce", food[2].Name)
}

func TestGormCategoryRepository_ExistsByName(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestCategory(t, uuid.New(), property.CategoryTypeFood, "Seafood")))

	// Match is case-insensitive and ignores surrounding whitespace
	exists, err := repo.ExistsByName(ctx, property.CategoryTypeFood, "  SEAFOOD ")
	require.NoError(t, err)
	assert.True(t, exists)

	// Same name under the other type does not collide
	exists, err = repo.ExistsByName(ctx, property.CategoryTypeBeverage, "Seafood")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormCategoryRepository_InUse(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	category := createTestCategory(t, tenantID, property.CategoryTypeFood, "Bakery")
	require.NoError(t, repo.Create(ctx, category))

	inUse, err := repo.InUse(ctx, category.ID)
	require.NoError(t, err)
	assert.False(t, inUse)

	detail := models.CostEntryDetailModel{
		ID:         uuid.New(),
		EntryID:    uuid.New(),
		TenantID:   tenantID,
		CategoryID: category.ID,
		Cost:       decimal.NewFromFloat(125.40),
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&detail).Error)

	inUse, err = repo.InUse(ctx, category.ID)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestGormCategoryRepository_Delete(t *testing.T) {
	db := setupCategoryTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	category := createTestCategory(t, uuid.New(), property.CategoryTypeBeverage, "Soft Drinks")
	require.NoError(t, repo.Create(ctx, category))

	require.NoError(t, repo.Delete(ctx, category.ID))

	_, err := repo.FindByID(ctx, category.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Deleting a missing row reports not found
	err = repo.Delete(ctx, category.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
