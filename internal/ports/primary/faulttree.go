package primary

import (
	"context"

	"github.com/example/fta/internal/core/faulttree"
)

// FaultTreeService defines the primary port for cause tree operations.
type FaultTreeService interface {
	// GetTree builds the numbered cause tree of an investigation.
	// Returns faulttree.ErrNoRoot for an empty investigation.
	GetTree(ctx context.Context, investigationID string) (*TreeView, error)

	// GetNode retrieves a single cause.
	GetNode(ctx context.Context, nodeID string) (*CauseNode, error)

	// CreateNode attaches a new cause under an existing node.
	CreateNode(ctx context.Context, req CreateNodeRequest) (*CreateNodeResponse, error)

	// DeleteNode removes a cause and its entire subtree.
	DeleteNode(ctx context.Context, nodeID string) (*DeleteNodeResponse, error)

	// TransitionStatus moves a cause between pending, validated and discarded.
	TransitionStatus(ctx context.Context, req TransitionStatusRequest) (*TransitionStatusResponse, error)

	// LinkClassification links a validated cause to a standard code.
	// An empty reference removes the link.
	LinkClassification(ctx context.Context, req LinkClassificationRequest) error

	// SetCauseRole marks a validated cause as basic, contributing or neither.
	SetCauseRole(ctx context.Context, req SetCauseRoleRequest) error

	// SetRecommendation sets the free-text recommendation of a cause.
	SetRecommendation(ctx context.Context, req SetRecommendationRequest) error

	// UpdateLabel edits the text of a cause.
	UpdateLabel(ctx context.Context, req UpdateLabelRequest) error

	// MoveNode swaps a cause with its previous or next sibling.
	MoveNode(ctx context.Context, req MoveNodeRequest) error
}

// TreeView is the numbered tree of one investigation, the single contract
// handed to renderers and report generators.
type TreeView struct {
	InvestigationID string              `json:"investigation_id"`
	Root            *faulttree.TreeNode `json:"root"`
	Codes           faulttree.Codes     `json:"-"`
}

// CauseNode represents a cause at the port boundary. The two cause flags
// are derived from a single stored role and are never both true.
type CauseNode struct {
	ID                    string `json:"id"`
	InvestigationID       string `json:"investigation_id"`
	ParentID              string `json:"parent_id,omitempty"`
	Label                 string `json:"label"`
	Kind                  string `json:"kind"`
	Status                string `json:"status"`
	DisplayOrder          int    `json:"display_order"`
	IsBasicCause          bool   `json:"is_basic_cause"`
	IsContributingCause   bool   `json:"is_contributing_cause"`
	Justification         string `json:"justification,omitempty"`
	JustificationImageRef string `json:"justification_image_ref,omitempty"`
	ClassificationRef     string `json:"classification_ref,omitempty"`
	Recommendation        string `json:"recommendation,omitempty"`
	CreatedAt             string `json:"created_at"`
}

// CreateNodeRequest contains parameters for attaching a cause.
type CreateNodeRequest struct {
	InvestigationID string `json:"-" validate:"required"`
	ParentID        string `json:"parent_id"` // empty only to recreate the root of an emptied investigation
	Label           string `json:"label" validate:"notblank,max=500"`
	Kind            string `json:"kind" validate:"required,oneof=root hypothesis fact"`
}

// CreateNodeResponse contains the result of attaching a cause.
type CreateNodeResponse struct {
	NodeID string     `json:"node_id"`
	Node   *CauseNode `json:"node"`
}

// DeleteNodeResponse reports how many nodes a cascading delete removed.
type DeleteNodeResponse struct {
	NodeID  string `json:"node_id"`
	Removed int    `json:"removed"`
}

// TransitionStatusRequest contains parameters for a status change.
type TransitionStatusRequest struct {
	NodeID                string `json:"-" validate:"required"`
	Status                string `json:"status" validate:"required,oneof=pending validated discarded"`
	Justification         string `json:"justification" validate:"max=4000"`
	JustificationImageRef string `json:"justification_image_ref" validate:"max=1000"`
}

// TransitionStatusResponse contains the result of a status change.
type TransitionStatusResponse struct {
	Node *CauseNode `json:"node"`
	// ReviewNodeIDs lists descendants of a cause that left validated. Their
	// own statuses are unchanged and need a manual look.
	ReviewNodeIDs []string `json:"review_node_ids"`
}

// LinkClassificationRequest contains parameters for linking a standard code.
type LinkClassificationRequest struct {
	NodeID            string `json:"-" validate:"required"`
	ClassificationRef string `json:"classification_ref" validate:"max=200"`
}

// SetCauseRoleRequest contains parameters for setting a cause role.
type SetCauseRoleRequest struct {
	NodeID string `json:"-" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=basic contributing none"`
}

// SetRecommendationRequest contains parameters for setting a recommendation.
type SetRecommendationRequest struct {
	NodeID         string `json:"-" validate:"required"`
	Recommendation string `json:"recommendation" validate:"max=4000"`
}

// UpdateLabelRequest contains parameters for editing a cause label.
type UpdateLabelRequest struct {
	NodeID string `json:"-" validate:"required"`
	Label  string `json:"label" validate:"notblank,max=500"`
}

// MoveNodeRequest contains parameters for reordering a cause.
type MoveNodeRequest struct {
	NodeID    string `json:"-" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=up down"`
}
