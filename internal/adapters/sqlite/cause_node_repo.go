package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/ports/secondary"
)

const causeNodeColumns = "id, investigation_id, parent_id, label, kind, status, display_order, cause_role, justification, justification_image_ref, classification_ref, recommendation, created_at, updated_at"

// CauseNodeRepository implements secondary.CauseNodeRepository with SQLite.
type CauseNodeRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewCauseNodeRepository creates a new SQLite cause node repository.
func NewCauseNodeRepository(db *sql.DB) *CauseNodeRepository {
	return &CauseNodeRepository{db: db, now: time.Now}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCauseNode(row rowScanner) (*secondary.CauseNodeRecord, error) {
	var (
		parentID       sql.NullString
		justification  sql.NullString
		imageRef       sql.NullString
		classification sql.NullString
		recommendation sql.NullString
		createdAt      string
		updatedAt      string
	)
	record := &secondary.CauseNodeRecord{}
	err := row.Scan(&record.ID, &record.InvestigationID, &parentID, &record.Label, &record.Kind, &record.Status,
		&record.DisplayOrder, &record.CauseRole, &justification, &imageRef, &classification, &recommendation,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.ParentID = parentID.String
	record.Justification = justification.String
	record.JustificationImageRef = imageRef.String
	record.ClassificationRef = classification.String
	record.Recommendation = recommendation.String
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("node %s has malformed created_at %q: %w", record.ID, createdAt, err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("node %s has malformed updated_at %q: %w", record.ID, updatedAt, err)
	}
	return record, nil
}

// ListNodes returns every node of an investigation in insertion order.
func (r *CauseNodeRepository) ListNodes(ctx context.Context, investigationID string) ([]*secondary.CauseNodeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+causeNodeColumns+" FROM cause_nodes WHERE investigation_id = ? ORDER BY rowid",
		investigationID,
	)
	if err != nil {
		return nil, storeErr("list cause nodes", err)
	}
	defer rows.Close()

	nodes := []*secondary.CauseNodeRecord{}
	for rows.Next() {
		record, err := scanCauseNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cause node: %w", err)
		}
		nodes = append(nodes, record)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list cause nodes", err)
	}
	return nodes, nil
}

// GetByID retrieves a single node.
func (r *CauseNodeRepository) GetByID(ctx context.Context, id string) (*secondary.CauseNodeRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+causeNodeColumns+" FROM cause_nodes WHERE id = ?", id)
	record, err := scanCauseNode(row)
	if err == sql.ErrNoRows {
		return nil, faulttree.NotFoundf("node %s", id)
	}
	if err != nil {
		return nil, storeErr("get cause node", err)
	}
	return record, nil
}

// Insert persists a new node. Its display order is allocated in the same
// statement as max(sibling order)+1, so concurrent inserts under one parent
// never share an order.
func (r *CauseNodeRepository) Insert(ctx context.Context, node *secondary.CauseNodeRecord) (string, error) {
	createdAt := node.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	stamp := createdAt.UTC().Format(timeLayout)
	role := node.CauseRole
	if role == "" {
		role = string(faulttree.RoleNone)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cause_nodes (`+causeNodeColumns+`)
		SELECT ?, ?, ?, ?, ?, ?, COALESCE(MAX(display_order), 0) + 1, ?, ?, ?, ?, ?, ?, ?
		FROM cause_nodes WHERE investigation_id = ? AND parent_id IS ?`,
		node.ID, node.InvestigationID, nullString(node.ParentID), node.Label, node.Kind, node.Status,
		role, nullString(node.Justification), nullString(node.JustificationImageRef),
		nullString(node.ClassificationRef), nullString(node.Recommendation), stamp, stamp,
		node.InvestigationID, nullString(node.ParentID),
	)
	if err != nil {
		return "", storeErr("insert cause node", err)
	}
	return node.ID, nil
}

// Update applies the non-nil fields of patch to one node.
func (r *CauseNodeRepository) Update(ctx context.Context, id string, patch secondary.CauseNodePatch) error {
	sets := []string{"updated_at = ?"}
	args := []any{r.now().UTC().Format(timeLayout)}

	if patch.Label != nil {
		sets = append(sets, "label = ?")
		args = append(args, *patch.Label)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.CauseRole != nil {
		sets = append(sets, "cause_role = ?")
		args = append(args, *patch.CauseRole)
	}
	if patch.Justification != nil {
		sets = append(sets, "justification = ?")
		args = append(args, nullString(*patch.Justification))
	}
	if patch.JustificationImageRef != nil {
		sets = append(sets, "justification_image_ref = ?")
		args = append(args, nullString(*patch.JustificationImageRef))
	}
	if patch.ClassificationRef != nil {
		sets = append(sets, "classification_ref = ?")
		args = append(args, nullString(*patch.ClassificationRef))
	}
	if patch.Recommendation != nil {
		sets = append(sets, "recommendation = ?")
		args = append(args, nullString(*patch.Recommendation))
	}
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, "UPDATE cause_nodes SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return storeErr("update cause node", err)
	}
	return requireAffected(result, "node", id)
}

// DeleteSubtree removes the node and every descendant in one statement.
// UNION (not UNION ALL) stops the walk if stored parent links form a cycle.
// The walk stays inside the target's investigation, so a stray row elsewhere
// whose parent_id points into the subtree survives.
func (r *CauseNodeRepository) DeleteSubtree(ctx context.Context, id string) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		WITH RECURSIVE subtree(id) AS (
			SELECT id FROM cause_nodes WHERE id = ?
			UNION
			SELECT c.id FROM cause_nodes c JOIN subtree s ON c.parent_id = s.id
			WHERE c.investigation_id = (SELECT investigation_id FROM cause_nodes WHERE id = ?)
		)
		DELETE FROM cause_nodes WHERE id IN (SELECT id FROM subtree)`,
		id, id,
	)
	if err != nil {
		return 0, storeErr("delete cause subtree", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return 0, faulttree.NotFoundf("node %s", id)
	}
	return int(n), nil
}

// SwapDisplayOrder exchanges the display order of two siblings. The first
// node is parked on a negative order so UNIQUE(parent_id, display_order)
// holds at every step.
func (r *CauseNodeRepository) SwapDisplayOrder(ctx context.Context, idA, idB string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin swap", err)
	}
	defer tx.Rollback()

	parentA, orderA, err := siblingPosition(ctx, tx, idA)
	if err != nil {
		return err
	}
	parentB, orderB, err := siblingPosition(ctx, tx, idB)
	if err != nil {
		return err
	}
	if parentA != parentB {
		return fmt.Errorf("nodes %s and %s are not siblings", idA, idB)
	}

	stamp := r.now().UTC().Format(timeLayout)
	steps := []struct {
		id    string
		order int
	}{
		{idA, -orderA},
		{idB, orderA},
		{idA, orderB},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx,
			"UPDATE cause_nodes SET display_order = ?, updated_at = ? WHERE id = ?",
			step.order, stamp, step.id,
		); err != nil {
			return storeErr("swap display order", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit swap", err)
	}
	return nil
}

func siblingPosition(ctx context.Context, tx *sql.Tx, id string) (sql.NullString, int, error) {
	var (
		parentID sql.NullString
		order    int
	)
	err := tx.QueryRowContext(ctx, "SELECT parent_id, display_order FROM cause_nodes WHERE id = ?", id).Scan(&parentID, &order)
	if err == sql.ErrNoRows {
		return parentID, 0, faulttree.NotFoundf("node %s", id)
	}
	if err != nil {
		return parentID, 0, storeErr("get node position", err)
	}
	return parentID, order, nil
}

// Ensure CauseNodeRepository implements the interface
var _ secondary.CauseNodeRepository = (*CauseNodeRepository)(nil)
