package audit

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuditLog(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates record with required fields", func(t *testing.T) {
		log, err := NewAuditLog(tenantID, ActionCreate, "food_cost")

		require.NoError(t, err)
		assert.Equal(t, tenantID, log.TenantID)
		assert.Equal(t, ActionCreate, log.Action)
		assert.Equal(t, "food_cost", log.Resource)
		assert.NotEqual(t, uuid.Nil, log.ID)
		assert.False(t, log.CreatedAt.IsZero())
	})

	t.Run("fails with empty action", func(t *testing.T) {
		_, err := NewAuditLog(tenantID, "", "food_cost")

		assert.Error(t, err)
	})

	t.Run("fails with empty resource", func(t *testing.T) {
		_, err := NewAuditLog(tenantID, ActionCreate, "")

		assert.Error(t, err)
	})

	t.Run("builder attaches context", func(t *testing.T) {
		userID := uuid.New()
		propertyID := uuid.New()

		log, err := NewAuditLog(tenantID, ActionUpdate, "summary")
		require.NoError(t, err)

		log.WithUser(userID, "chef.alex").
			WithProperty(propertyID).
			WithResourceID("abc-123").
			WithDetails(`{"field":"actual_food_revenue"}`).
			WithRequest("10.0.0.5", "Mozilla/5.0")

		assert.Equal(t, &userID, log.UserID)
		assert.Equal(t, "chef.alex", log.Username)
		assert.Equal(t, &propertyID, log.PropertyID)
		assert.Equal(t, "abc-123", log.ResourceID)
		assert.Equal(t, "10.0.0.5", log.IPAddress)
	})

	t.Run("truncates oversized user agent", func(t *testing.T) {
		log, _ := NewAuditLog(tenantID, ActionLogin, "auth")

		log.WithRequest("10.0.0.5", strings.Repeat("x", 600))

		assert.Len(t, log.UserAgent, 500)
	})

	t.Run("classifies failed logins and deletions", func(t *testing.T) {
		failed, _ := NewAuditLog(tenantID, ActionLoginFailed, "auth")
		deleted, _ := NewAuditLog(tenantID, ActionDelete, "beverage_cost")
		created, _ := NewAuditLog(tenantID, ActionCreate, "beverage_cost")

		assert.True(t, failed.IsFailedLogin())
		assert.True(t, deleted.IsDeletion())
		assert.False(t, created.IsFailedLogin())
		assert.False(t, created.IsDeletion())
	})
}
