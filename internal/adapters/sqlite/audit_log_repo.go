package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/fta/internal/ports/secondary"
)

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create persists a new audit entry.
func (r *AuditLogRepository) Create(ctx context.Context, entry *secondary.AuditLogRecord) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_log (investigation_id, node_id, actor, action, field, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?)",
		entry.InvestigationID, nullString(entry.NodeID), nullString(entry.ActorID), entry.Action,
		nullString(entry.FieldName), nullString(entry.OldValue), nullString(entry.NewValue),
	)
	if err != nil {
		return storeErr("create audit entry", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// List returns the most recent entries of an investigation, newest first.
// A non-positive limit returns everything.
func (r *AuditLogRepository) List(ctx context.Context, investigationID string, limit int) ([]*secondary.AuditLogRecord, error) {
	query := "SELECT id, investigation_id, node_id, actor, action, field, old_value, new_value, created_at FROM audit_log WHERE investigation_id = ? ORDER BY id DESC"
	args := []any{investigationID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list audit log", err)
	}
	defer rows.Close()

	entries := []*secondary.AuditLogRecord{}
	for rows.Next() {
		var (
			nodeID    sql.NullString
			actor     sql.NullString
			field     sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			createdAt time.Time
		)
		record := &secondary.AuditLogRecord{}
		if err := rows.Scan(&record.ID, &record.InvestigationID, &nodeID, &actor, &record.Action,
			&field, &oldValue, &newValue, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		record.NodeID = nodeID.String
		record.ActorID = actor.String
		record.FieldName = field.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, record)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list audit log", err)
	}
	return entries, nil
}

// Ensure AuditLogRepository implements the interface
var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
