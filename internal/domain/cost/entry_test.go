package cost

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCostEntry(t *testing.T) {
	tenantID := uuid.New()
	propertyID := uuid.New()

	t.Run("creates food entry for today", func(t *testing.T) {
		entry, err := NewFoodCostEntry(tenantID, propertyID, time.Now())

		require.NoError(t, err)
		assert.Equal(t, CostTypeFood, entry.Type)
		assert.Equal(t, propertyID, entry.PropertyID)
		assert.True(t, entry.Total.IsZero())
		assert.Empty(t, entry.Details)

		// Date normalized to midnight UTC
		assert.Equal(t, 0, entry.EntryDate.Hour())
		assert.Equal(t, time.UTC, entry.EntryDate.Location())

		events := entry.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*CostEntryCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("creates beverage entry", func(t *testing.T) {
		entry, err := NewBeverageCostEntry(tenantID, propertyID, time.Now().AddDate(0, 0, -1))

		require.NoError(t, err)
		assert.Equal(t, CostTypeBeverage, entry.Type)
	})

	t.Run("rejects future date", func(t *testing.T) {
		_, err := NewFoodCostEntry(tenantID, propertyID, time.Now().AddDate(0, 0, 2))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "future")
	})

	t.Run("rejects nil property", func(t *testing.T) {
		_, err := NewFoodCostEntry(tenantID, uuid.Nil, time.Now())

		assert.Error(t, err)
	})

	t.Run("rejects zero date", func(t *testing.T) {
		_, err := NewFoodCostEntry(tenantID, propertyID, time.Time{})

		assert.Error(t, err)
	})
}

func TestCostEntry_Details(t *testing.T) {
	tenantID := uuid.New()
	propertyID := uuid.New()
	meat := uuid.New()
	dairy := uuid.New()

	newEntry := func(t *testing.T) *CostEntry {
		entry, err := NewFoodCostEntry(tenantID, propertyID, time.Now())
		require.NoError(t, err)
		entry.ClearDomainEvents()
		return entry
	}

	t.Run("total equals sum of details", func(t *testing.T) {
		entry := newEntry(t)

		require.NoError(t, entry.AddDetail(meat, decimal.NewFromFloat(120.50), "beef"))
		require.NoError(t, entry.AddDetail(dairy, decimal.NewFromFloat(35.25), "milk"))

		assert.True(t, entry.Total.Equal(decimal.NewFromFloat(155.75)))
		assert.True(t, entry.Total.Equal(entry.DetailTotal()))
	})

	t.Run("removing a line recomputes total", func(t *testing.T) {
		entry := newEntry(t)
		_ = entry.AddDetail(meat, decimal.NewFromInt(100), "")
		_ = entry.AddDetail(dairy, decimal.NewFromInt(50), "")
		detailID := entry.Details[0].ID

		require.NoError(t, entry.RemoveDetail(detailID))

		assert.True(t, entry.Total.Equal(decimal.NewFromInt(50)))
		assert.Len(t, entry.Details, 1)
	})

	t.Run("removing unknown line fails", func(t *testing.T) {
		entry := newEntry(t)

		err := entry.RemoveDetail(uuid.New())

		assert.Error(t, err)
	})

	t.Run("rejects negative cost", func(t *testing.T) {
		entry := newEntry(t)

		err := entry.AddDetail(meat, decimal.NewFromInt(-5), "")

		assert.Error(t, err)
		assert.True(t, entry.Total.IsZero())
	})

	t.Run("set details replaces lines and assigns ids", func(t *testing.T) {
		entry := newEntry(t)
		_ = entry.AddDetail(meat, decimal.NewFromInt(10), "")

		err := entry.SetDetails([]CostDetail{
			{CategoryID: dairy, Cost: decimal.NewFromInt(20)},
			{CategoryID: meat, Cost: decimal.NewFromInt(30)},
		})

		require.NoError(t, err)
		assert.Len(t, entry.Details, 2)
		assert.True(t, entry.Total.Equal(decimal.NewFromInt(50)))
		for _, d := range entry.Details {
			assert.NotEqual(t, uuid.Nil, d.ID)
		}
	})

	t.Run("sums lines per category", func(t *testing.T) {
		entry := newEntry(t)
		_ = entry.AddDetail(meat, decimal.NewFromInt(10), "beef")
		_ = entry.AddDetail(meat, decimal.NewFromInt(15), "lamb")
		_ = entry.AddDetail(dairy, decimal.NewFromInt(5), "")

		assert.True(t, entry.CostForCategory(meat).Equal(decimal.NewFromInt(25)))
		assert.True(t, entry.HasCategory(dairy))
		assert.False(t, entry.HasCategory(uuid.New()))
	})

	t.Run("detail change emits updated event", func(t *testing.T) {
		entry := newEntry(t)

		_ = entry.AddDetail(meat, decimal.NewFromInt(10), "")

		events := entry.GetDomainEvents()
		require.Len(t, events, 1)
		evt, ok := events[0].(*CostEntryUpdatedEvent)
		require.True(t, ok)
		assert.True(t, evt.Total.Equal(decimal.NewFromInt(10)))
	})
}

func TestDateOnly(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Singapore")
	ts := time.Date(2026, 3, 15, 1, 30, 0, 0, loc) // 2026-03-14 17:30 UTC

	day := DateOnly(ts)

	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), day)
}
