package primary

import "context"

// InvestigationService defines the primary port for investigation operations.
type InvestigationService interface {
	// CreateInvestigation creates a new investigation and its root event.
	CreateInvestigation(ctx context.Context, req CreateInvestigationRequest) (*CreateInvestigationResponse, error)

	// GetInvestigation retrieves an investigation by ID.
	GetInvestigation(ctx context.Context, investigationID string) (*Investigation, error)

	// ListInvestigations lists investigations with optional filters.
	ListInvestigations(ctx context.Context, filters InvestigationFilters) ([]*Investigation, error)

	// DeleteInvestigation deletes an investigation and its whole cause tree.
	DeleteInvestigation(ctx context.Context, investigationID string) error

	// CheckIntegrity verifies the cause tree of one investigation. A failing
	// check places the investigation on integrity hold.
	CheckIntegrity(ctx context.Context, investigationID string) (*IntegrityReport, error)

	// CheckAllIntegrity verifies every investigation concurrently.
	CheckAllIntegrity(ctx context.Context) ([]*IntegrityReport, error)

	// ReleaseIntegrityHold lifts a hold once the tree passes the check again.
	ReleaseIntegrityHold(ctx context.Context, investigationID string) error

	// GetAuditLog returns recent audit entries for an investigation.
	GetAuditLog(ctx context.Context, investigationID string, limit int) ([]*AuditEntry, error)
}

// CreateInvestigationRequest contains parameters for creating an investigation.
type CreateInvestigationRequest struct {
	Title       string `json:"title" validate:"notblank,max=200"`
	Description string `json:"description" validate:"max=4000"`
	RootLabel   string `json:"root_label" validate:"notblank,max=500"`
}

// CreateInvestigationResponse contains the result of creating an investigation.
type CreateInvestigationResponse struct {
	InvestigationID string         `json:"investigation_id"`
	RootNodeID      string         `json:"root_node_id"`
	Investigation   *Investigation `json:"investigation"`
}

// Investigation represents an investigation entity at the port boundary.
type Investigation struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	IntegrityHold string `json:"integrity_hold,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// InvestigationFilters contains filter options for listing investigations.
type InvestigationFilters struct {
	OnHold bool
	Limit  int
}

// IntegrityReport is the outcome of an integrity check.
type IntegrityReport struct {
	InvestigationID string   `json:"investigation_id"`
	OK              bool     `json:"ok"`
	Empty           bool     `json:"empty"`
	NodeCount       int      `json:"node_count"`
	Depth           int      `json:"depth"` // levels below the root event
	Problem         string   `json:"problem,omitempty"`
	NodeIDs         []string `json:"node_ids,omitempty"`
	// Warnings are tolerated anomalies, e.g. siblings sharing a display order.
	Warnings []string `json:"warnings,omitempty"`
}

// AuditEntry represents an audit log entry at the port boundary.
type AuditEntry struct {
	NodeID    string `json:"node_id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Field     string `json:"field,omitempty"`
	OldValue  string `json:"old_value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
	CreatedAt string `json:"created_at"`
}
