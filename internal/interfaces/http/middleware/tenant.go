package middleware

import (
	"net/http"
	"strings"

	"github.com/fnbcost/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gin context and header keys for tenant identification.
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantMiddlewareConfig configures tenant extraction.
type TenantMiddlewareConfig struct {
	// HeaderEnabled accepts the X-Tenant-ID header as a tenant source.
	HeaderEnabled bool
	// JWTEnabled reads the tenant from JWT claims. The JWT middleware must
	// run first.
	JWTEnabled bool
	// SkipPaths bypass tenant extraction, matched exactly or as a path
	// prefix.
	SkipPaths []string
	// Required rejects requests that carry no tenant at all.
	Required bool
	Logger   *zap.Logger
}

// TenantMiddlewareWithConfig resolves the request's tenant, preferring JWT
// claims over the X-Tenant-ID header, and stores it in both the gin context
// and the request context. Repositories read it back from the request
// context for row filtering.
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		tenantID, source := resolveTenant(c, cfg)

		if tenantID != "" {
			if _, err := uuid.Parse(tenantID); err != nil {
				rejectTenant(c, "Invalid tenant ID format")
				return
			}
		}

		if tenantID == "" && cfg.Required {
			rejectTenant(c, "Tenant identification required")
			return
		}

		if tenantID != "" {
			c.Set(TenantIDKey, tenantID)

			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithTenantID(ctx, log, tenantID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Tenant identified",
					zap.String("tenant_id", tenantID),
					zap.String("source", source),
				)
			}
		}

		c.Next()
	}
}

// resolveTenant returns the tenant ID and which source supplied it.
func resolveTenant(c *gin.Context, cfg TenantMiddlewareConfig) (string, string) {
	if cfg.JWTEnabled {
		if tid := GetJWTTenantID(c); tid != "" {
			return tid, "jwt"
		}
	}
	if cfg.HeaderEnabled {
		if tid := c.GetHeader(TenantHeaderKey); tid != "" {
			return tid, "header"
		}
	}
	return "", ""
}

func rejectTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetTenantID returns the resolved tenant ID, or "" when none was set.
func GetTenantID(c *gin.Context) string {
	if v, exists := c.Get(TenantIDKey); exists {
		if tid, ok := v.(string); ok {
			return tid
		}
	}
	return ""
}
