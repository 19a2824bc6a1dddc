package contextutil

import (
	"context"

	"go.uber.org/zap"
)

const (
	userIDKey contextKey = "user_id"
	loggerKey contextKey = "logger"
)

// WithUserID injects the authenticated user id into ctx.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

// GetUserID returns the user id carried by ctx, or "" when absent.
func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey).(string); ok {
		return uid
	}
	return ""
}

// WithLogger attaches a request-scoped zap logger, usually one already
// decorated with request id and user id fields.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLogger returns the logger carried by ctx, falling back to
// defaultLogger and finally to a nop logger so the result is never nil.
func GetLogger(ctx context.Context, defaultLogger *zap.Logger) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
			return l
		}
	}

	if defaultLogger != nil {
		return defaultLogger
	}

	return zap.NewNop()
}
