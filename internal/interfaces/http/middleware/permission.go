package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when permission is denied (optional)
	OnDenied func(c *gin.Context, requiredPerms []string)
}

// RequirePermission creates middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequirePermissionWithConfig creates middleware with custom config
func RequirePermissionWithConfig(permission string, cfg PermissionConfig) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(cfg, permission)
}

// RequireAnyPermission creates middleware that passes when the user holds at
// least one of the listed permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig is RequireAnyPermission with custom config
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return guard(cfg, func(*gin.Context) []string { return permissions })
}

// RequireResource creates middleware that checks a resource permission with
// the action derived from the HTTP method:
// - GET -> read
// - POST/PUT/PATCH -> write
// - DELETE -> delete
func RequireResource(resource string) gin.HandlerFunc {
	return RequireResourceWithConfig(resource, PermissionConfig{})
}

// RequireResourceWithConfig is RequireResource with custom config
func RequireResourceWithConfig(resource string, cfg PermissionConfig) gin.HandlerFunc {
	return guard(cfg, func(c *gin.Context) []string {
		return []string{resource + ":" + methodToAction(c.Request.Method)}
	})
}

// guard builds the middleware shared by all permission checks. The required
// permissions are computed per request so resource guards can derive the
// action from the method.
func guard(cfg PermissionConfig, required func(c *gin.Context) []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		perms := required(c)

		claims := GetJWTClaims(c)
		if claims == nil {
			cfg.deny(c, perms, "No authentication claims found")
			return
		}
		if !claims.HasAnyPermission(perms...) {
			cfg.deny(c, perms, "User lacks required permission")
			return
		}
		c.Next()
	}
}

// methodToAction converts an HTTP method to a permission action. Mutating
// methods other than DELETE all map to the write action.
func methodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return "write"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

func (cfg PermissionConfig) deny(c *gin.Context, required []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		fields := []zap.Field{
			zap.String("reason", reason),
			zap.Strings("required_permissions", required),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		}
		if claims := GetJWTClaims(c); claims != nil {
			fields = append(fields,
				zap.String("user_id", claims.UserID),
				zap.Strings("user_permissions", claims.Permissions),
			)
		}
		cfg.Logger.Warn("Permission denied", fields...)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient permissions",
		},
	})
}

// HasPermission reports whether the authenticated user holds the permission.
// Handlers use it for checks that depend on request data rather than the route.
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.HasPermission(permission)
}
