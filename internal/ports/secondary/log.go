package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs the creation of a node.
	LogCreate(ctx context.Context, investigationID, nodeID string) error

	// LogUpdate logs a change to one node field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, investigationID, nodeID, fieldName, oldValue, newValue string) error

	// LogDelete logs a cascading delete rooted at nodeID.
	LogDelete(ctx context.Context, investigationID, nodeID string, removed int) error
}

// AuditLogRepository defines the secondary port for audit log persistence.
type AuditLogRepository interface {
	// Create persists a new audit entry.
	Create(ctx context.Context, entry *AuditLogRecord) error

	// List returns the most recent entries of an investigation, newest first.
	List(ctx context.Context, investigationID string, limit int) ([]*AuditLogRecord, error)
}

// AuditLogRecord represents an audit entry as stored in persistence.
type AuditLogRecord struct {
	ID              int64
	InvestigationID string
	NodeID          string
	ActorID         string
	Action          string // create, update, delete
	FieldName       string
	OldValue        string
	NewValue        string
	CreatedAt       string
}
