package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a private type so logger values never collide with other
// packages' context keys.
type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	tenantIDKey  contextKey = "tenant_id"
	userIDKey    contextKey = "user_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from context. A no-op logger is returned
// when none is attached so callers never need a nil check.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// tag stores value under key and returns a logger carrying it as a field. The
// enriched logger replaces any logger already attached to the context.
func tag(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	enriched := logger.With(zap.String(string(key), value))
	return WithContext(ctx, enriched), enriched
}

// WithRequestID attaches the request ID to the context and the logger
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, requestIDKey, requestID)
}

// WithTenantID attaches the tenant ID to the context and the logger. The
// tenant GORM callback reads this value back through GetTenantID.
func WithTenantID(ctx context.Context, logger *zap.Logger, tenantID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, tenantIDKey, tenantID)
}

// WithUserID attaches the user ID to the context and the logger
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return tag(ctx, logger, userIDKey, userID)
}

func value(ctx context.Context, key contextKey) string {
	if s, ok := ctx.Value(key).(string); ok {
		return s
	}
	return ""
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string { return value(ctx, requestIDKey) }

// GetTenantID retrieves the tenant ID from context
func GetTenantID(ctx context.Context) string { return value(ctx, tenantIDKey) }

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) string { return value(ctx, userIDKey) }
