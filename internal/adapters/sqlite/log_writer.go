package sqlite

import (
	"context"
	"strconv"

	"github.com/example/fta/internal/ctxutil"
	"github.com/example/fta/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using AuditLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.AuditLogRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.AuditLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs the creation of a node.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, investigationID, nodeID string) error {
	return w.writeLog(ctx, investigationID, nodeID, "create", "", "", "")
}

// LogUpdate logs a change to one node field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, investigationID, nodeID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, investigationID, nodeID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a cascading delete. The removed row count is kept in new_value.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, investigationID, nodeID string, removed int) error {
	return w.writeLog(ctx, investigationID, nodeID, "delete", "removed", "", strconv.Itoa(removed))
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, investigationID, nodeID, action, fieldName, oldValue, newValue string) error {
	record := &secondary.AuditLogRecord{
		InvestigationID: investigationID,
		NodeID:          nodeID,
		ActorID:         ctxutil.ActorFromContext(ctx),
		Action:          action,
		FieldName:       fieldName,
		OldValue:        oldValue,
		NewValue:        newValue,
	}
	return w.logRepo.Create(ctx, record)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
