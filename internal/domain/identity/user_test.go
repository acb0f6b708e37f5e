package identity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates user with valid username and password", func(t *testing.T) {
		user, err := NewUser(tenantID, "testuser", "Password123")

		require.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, tenantID, user.TenantID)
		assert.Equal(t, "testuser", user.Username)
		assert.NotEmpty(t, user.PasswordHash)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.Empty(t, user.RoleIDs)
		assert.NotNil(t, user.PasswordChangedAt)

		events := user.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*UserCreatedEvent)
		assert.True(t, ok)
	})

	t.Run("normalizes username to lowercase", func(t *testing.T) {
		user, err := NewUser(tenantID, "TestUser", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
	})

	t.Run("fails with empty username", func(t *testing.T) {
		_, err := NewUser(tenantID, "", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})

	t.Run("fails with short username", func(t *testing.T) {
		_, err := NewUser(tenantID, "ab", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 3 characters")
	})

	t.Run("fails with invalid username characters", func(t *testing.T) {
		_, err := NewUser(tenantID, "test@user", "Password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only contain letters")
	})

	t.Run("fails with short password", func(t *testing.T) {
		_, err := NewUser(tenantID, "testuser", "Pass1")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8 characters")
	})

	t.Run("fails with password without numbers", func(t *testing.T) {
		_, err := NewUser(tenantID, "testuser", "Password")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one letter and one number")
	})
}

func TestNewActiveUser(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates active user", func(t *testing.T) {
		user, err := NewActiveUser(tenantID, "testuser", "Password123")

		require.NoError(t, err)
		assert.Equal(t, UserStatusActive, user.Status)
	})
}

func TestUser_SetEmail(t *testing.T) {
	tenantID := uuid.New()
	user, _ := NewUser(tenantID, "testuser", "Password123")
	user.ClearDomainEvents()

	t.Run("sets valid email", func(t *testing.T) {
		err := user.SetEmail("test@example.com")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("normalizes email to lowercase", func(t *testing.T) {
		err := user.SetEmail("Test@Example.COM")

		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("fails with invalid email format", func(t *testing.T) {
		err := user.SetEmail("invalid-email")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email")
	})
}

func TestUser_PasswordManagement(t *testing.T) {
	tenantID := uuid.New()

	t.Run("verifies correct password", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")

		assert.True(t, user.VerifyPassword("Password123"))
		assert.False(t, user.VerifyPassword("WrongPassword1"))
	})

	t.Run("changes password with correct old password", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")
		user.ClearDomainEvents()

		err := user.ChangePassword("Password123", "NewPassword456")

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("NewPassword456"))
		assert.False(t, user.VerifyPassword("Password123"))

		events := user.GetDomainEvents()
		assert.Len(t, events, 1)
		_, ok := events[0].(*UserPasswordChangedEvent)
		assert.True(t, ok)
	})

	t.Run("fails to change password with wrong old password", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")

		err := user.ChangePassword("WrongOld1", "NewPassword456")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect")
	})

	t.Run("admin reset clears must-change flag", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")
		user.ForcePasswordChange()
		require.True(t, user.MustChangePassword)

		err := user.SetPassword("ResetPass789")

		require.NoError(t, err)
		assert.False(t, user.MustChangePassword)
	})
}

func TestUser_RoleAssignment(t *testing.T) {
	tenantID := uuid.New()
	roleID := uuid.New()

	t.Run("assigns role", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")
		user.ClearDomainEvents()

		err := user.AssignRole(roleID)

		require.NoError(t, err)
		assert.True(t, user.HasRole(roleID))
	})

	t.Run("rejects duplicate role", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")
		_ = user.AssignRole(roleID)

		err := user.AssignRole(roleID)

		assert.Error(t, err)
	})

	t.Run("removes role", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")
		_ = user.AssignRole(roleID)

		err := user.RemoveRole(roleID)

		require.NoError(t, err)
		assert.False(t, user.HasRole(roleID))
	})

	t.Run("fails to remove unassigned role", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")

		err := user.RemoveRole(roleID)

		assert.Error(t, err)
	})

	t.Run("set roles deduplicates", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")

		err := user.SetRoles([]uuid.UUID{roleID, roleID})

		require.NoError(t, err)
		assert.Len(t, user.RoleIDs, 1)
	})
}

func TestUser_StatusLifecycle(t *testing.T) {
	tenantID := uuid.New()

	t.Run("activates pending user", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")
		user.ClearDomainEvents()

		err := user.Activate()

		require.NoError(t, err)
		assert.True(t, user.IsActive())
		assert.True(t, user.CanLogin())
	})

	t.Run("fails to activate already active user", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")

		err := user.Activate()

		assert.Error(t, err)
	})

	t.Run("deactivated user cannot login", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")

		err := user.Deactivate()

		require.NoError(t, err)
		assert.True(t, user.IsDeactivated())
		assert.False(t, user.CanLogin())
	})

	t.Run("pending user cannot login", func(t *testing.T) {
		user, _ := NewUser(tenantID, "testuser", "Password123")

		assert.False(t, user.CanLogin())
	})

	t.Run("cannot lock deactivated user", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")
		_ = user.Deactivate()

		err := user.Lock(time.Hour)

		assert.Error(t, err)
	})

	t.Run("unlock restores active status", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")
		_ = user.Lock(time.Hour)
		require.True(t, user.IsLocked())

		err := user.Unlock()

		require.NoError(t, err)
		assert.True(t, user.IsActive())
		assert.Zero(t, user.FailedAttempts)
	})

	t.Run("expired lock is not locked", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")
		_ = user.Lock(time.Hour)
		past := time.Now().Add(-time.Minute)
		user.LockedUntil = &past

		assert.False(t, user.IsLocked())
	})
}

func TestUser_LoginTracking(t *testing.T) {
	tenantID := uuid.New()

	t.Run("success resets failed attempts", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")
		user.FailedAttempts = 3

		user.RecordLoginSuccess("192.168.1.10")

		assert.Zero(t, user.FailedAttempts)
		assert.NotNil(t, user.LastLoginAt)
		assert.Equal(t, "192.168.1.10", user.LastLoginIP)
	})

	t.Run("locks after max failed attempts", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")

		locked := false
		for i := 0; i < 5; i++ {
			locked = user.RecordLoginFailure(5, 30*time.Minute)
		}

		assert.True(t, locked)
		assert.True(t, user.IsLocked())
		assert.NotNil(t, user.LockedUntil)
	})

	t.Run("does not lock below threshold", func(t *testing.T) {
		user, _ := NewActiveUser(tenantID, "testuser", "Password123")

		locked := user.RecordLoginFailure(5, 30*time.Minute)

		assert.False(t, locked)
		assert.Equal(t, 1, user.FailedAttempts)
	})
}
