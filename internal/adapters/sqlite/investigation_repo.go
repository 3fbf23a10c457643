// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/ports/secondary"
)

const investigationColumns = "id, title, description, integrity_hold, created_at, updated_at"

// InvestigationRepository implements secondary.InvestigationRepository with SQLite.
type InvestigationRepository struct {
	db *sql.DB
}

// NewInvestigationRepository creates a new SQLite investigation repository.
func NewInvestigationRepository(db *sql.DB) *InvestigationRepository {
	return &InvestigationRepository{db: db}
}

// Create persists a new investigation and its root node in one transaction.
func (r *InvestigationRepository) Create(ctx context.Context, investigation *secondary.InvestigationRecord, root *secondary.CauseNodeRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin create investigation", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO investigations (id, title, description) VALUES (?, ?, ?)",
		investigation.ID, investigation.Title, nullString(investigation.Description),
	)
	if err != nil {
		return storeErr("create investigation", err)
	}

	if root != nil {
		createdAt := root.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		stamp := createdAt.UTC().Format(timeLayout)
		_, err = tx.ExecContext(ctx,
			"INSERT INTO cause_nodes ("+causeNodeColumns+") VALUES (?, ?, NULL, ?, ?, ?, 1, ?, NULL, NULL, NULL, NULL, ?, ?)",
			root.ID, investigation.ID, root.Label, root.Kind, root.Status, string(faulttree.RoleNone), stamp, stamp,
		)
		if err != nil {
			return storeErr("create root node", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit investigation", err)
	}
	return nil
}

func scanInvestigation(row rowScanner) (*secondary.InvestigationRecord, error) {
	var (
		desc      sql.NullString
		hold      sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)
	record := &secondary.InvestigationRecord{}
	if err := row.Scan(&record.ID, &record.Title, &desc, &hold, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	record.Description = desc.String
	record.IntegrityHold = hold.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// GetByID retrieves an investigation by its ID.
func (r *InvestigationRepository) GetByID(ctx context.Context, id string) (*secondary.InvestigationRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+investigationColumns+" FROM investigations WHERE id = ?", id)
	record, err := scanInvestigation(row)
	if err == sql.ErrNoRows {
		return nil, faulttree.NotFoundf("investigation %s", id)
	}
	if err != nil {
		return nil, storeErr("get investigation", err)
	}
	return record, nil
}

// List retrieves investigations matching the given filters, ordered by ID.
func (r *InvestigationRepository) List(ctx context.Context, filters secondary.InvestigationFilters) ([]*secondary.InvestigationRecord, error) {
	query := "SELECT " + investigationColumns + " FROM investigations WHERE 1=1"
	args := []any{}

	if filters.OnHold {
		query += " AND integrity_hold IS NOT NULL"
	}

	query += " ORDER BY id"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list investigations", err)
	}
	defer rows.Close()

	investigations := []*secondary.InvestigationRecord{}
	for rows.Next() {
		record, err := scanInvestigation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investigation: %w", err)
		}
		investigations = append(investigations, record)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list investigations", err)
	}
	return investigations, nil
}

// Delete removes an investigation, its nodes, and its audit trail.
func (r *InvestigationRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin delete investigation", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cause_nodes WHERE investigation_id = ?", id); err != nil {
		return storeErr("delete investigation nodes", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM audit_log WHERE investigation_id = ?", id); err != nil {
		return storeErr("delete investigation audit log", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM investigations WHERE id = ?", id)
	if err != nil {
		return storeErr("delete investigation", err)
	}
	if err := requireAffected(result, "investigation", id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit delete investigation", err)
	}
	return nil
}

// GetNextID returns the next available investigation ID.
func (r *InvestigationRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM investigations",
	).Scan(&maxID)
	if err != nil {
		return "", storeErr("get next investigation ID", err)
	}

	return fmt.Sprintf("INV-%03d", maxID+1), nil
}

// SetIntegrityHold records why edits to the investigation are blocked.
func (r *InvestigationRepository) SetIntegrityHold(ctx context.Context, id, reason string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE investigations SET integrity_hold = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		reason, id,
	)
	if err != nil {
		return storeErr("set integrity hold", err)
	}
	return requireAffected(result, "investigation", id)
}

// ClearIntegrityHold lifts an integrity hold.
func (r *InvestigationRepository) ClearIntegrityHold(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE investigations SET integrity_hold = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		id,
	)
	if err != nil {
		return storeErr("clear integrity hold", err)
	}
	return requireAffected(result, "investigation", id)
}

// Ensure InvestigationRepository implements the interface
var _ secondary.InvestigationRepository = (*InvestigationRepository)(nil)
