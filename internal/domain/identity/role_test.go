package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPermission(t *testing.T) {
	t.Run("creates permission from resource and action", func(t *testing.T) {
		perm, err := NewPermission("food_cost", "create")

		require.NoError(t, err)
		assert.Equal(t, "food_cost:create", perm.Code)
		assert.Equal(t, "food_cost", perm.Resource)
		assert.Equal(t, "create", perm.Action)
	})

	t.Run("normalizes to lowercase", func(t *testing.T) {
		perm, err := NewPermission("Report", "Export")

		require.NoError(t, err)
		assert.Equal(t, "report:export", perm.Code)
	})

	t.Run("fails with empty resource", func(t *testing.T) {
		_, err := NewPermission("", "create")

		assert.Error(t, err)
	})

	t.Run("parses permission code", func(t *testing.T) {
		perm, err := NewPermissionFromCode("summary:update")

		require.NoError(t, err)
		assert.Equal(t, "summary", perm.Resource)
		assert.Equal(t, "update", perm.Action)
	})

	t.Run("fails with malformed code", func(t *testing.T) {
		_, err := NewPermissionFromCode("no-separator")

		assert.Error(t, err)
	})
}

func TestNewRole(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates role with valid code and name", func(t *testing.T) {
		role, err := NewRole(tenantID, "cost_controller", "Cost Controller")

		require.NoError(t, err)
		assert.Equal(t, "COST_CONTROLLER", role.Code)
		assert.Equal(t, "Cost Controller", role.Name)
		assert.True(t, role.IsEnabled)
		assert.False(t, role.IsSystemRole)
		assert.True(t, role.CanDelete())

		events := role.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*RoleCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("system role cannot be deleted", func(t *testing.T) {
		role, err := NewSystemRole(tenantID, RoleCodeAdmin, "Administrator")

		require.NoError(t, err)
		assert.True(t, role.IsSystemRole)
		assert.False(t, role.CanDelete())
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewRole(tenantID, "", "Name")

		assert.Error(t, err)
	})

	t.Run("fails with code starting with a digit", func(t *testing.T) {
		_, err := NewRole(tenantID, "1admin", "Name")

		assert.Error(t, err)
	})
}

func TestRole_Permissions(t *testing.T) {
	tenantID := uuid.New()

	newRole := func(t *testing.T) *Role {
		role, err := NewRole(tenantID, "MANAGER", "Manager")
		require.NoError(t, err)
		role.ClearDomainEvents()
		return role
	}

	t.Run("grants permission", func(t *testing.T) {
		role := newRole(t)

		err := role.GrantPermissionByCode("food_cost:create")

		require.NoError(t, err)
		assert.True(t, role.HasPermission("food_cost:create"))
		assert.True(t, role.HasPermissionForResource("food_cost"))
	})

	t.Run("rejects duplicate grant", func(t *testing.T) {
		role := newRole(t)
		_ = role.GrantPermissionByCode("food_cost:create")

		err := role.GrantPermissionByCode("food_cost:create")

		assert.Error(t, err)
	})

	t.Run("revokes permission", func(t *testing.T) {
		role := newRole(t)
		_ = role.GrantPermissionByCode("food_cost:create")

		err := role.RevokePermission("food_cost:create")

		require.NoError(t, err)
		assert.False(t, role.HasPermission("food_cost:create"))
	})

	t.Run("fails to revoke missing permission", func(t *testing.T) {
		role := newRole(t)

		err := role.RevokePermission("report:export")

		assert.Error(t, err)
	})

	t.Run("set permissions deduplicates", func(t *testing.T) {
		role := newRole(t)
		perm, _ := NewPermission("report", "export")

		err := role.SetPermissions([]Permission{*perm, *perm})

		require.NoError(t, err)
		assert.Len(t, role.Permissions, 1)
	})
}

func TestRole_EnableDisable(t *testing.T) {
	tenantID := uuid.New()
	role, _ := NewRole(tenantID, "VIEWER", "Viewer")

	t.Run("disable then enable", func(t *testing.T) {
		require.NoError(t, role.Disable())
		assert.False(t, role.IsEnabled)

		require.NoError(t, role.Enable())
		assert.True(t, role.IsEnabled)
	})

	t.Run("fails to enable twice", func(t *testing.T) {
		err := role.Enable()

		assert.Error(t, err)
	})
}
