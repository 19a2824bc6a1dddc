package contextutil

import "context"

// Unexported key type keeps this context value private to the package.
type contextKey string

const requestIDKey contextKey = "request_id"

// GetRequestID returns the request id carried by ctx, or "" when absent.
// Propagation happens in the RequestID middleware.
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey).(string); ok {
		return rid
	}
	return ""
}

// WithRequestID injects a request id into ctx (also handy in unit tests).
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetKey exposes the raw key for middleware that needs it.
func GetKey() string {
	return string(requestIDKey)
}
