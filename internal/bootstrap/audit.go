package bootstrap

import "context"

// AuditLog is one operational audit event.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events that must outlive request logs,
// such as server lifecycle transitions.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
