// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// InvestigationRepository defines the secondary port for investigation persistence.
type InvestigationRepository interface {
	// Create persists a new investigation together with its root node.
	// Both rows are written atomically.
	Create(ctx context.Context, investigation *InvestigationRecord, root *CauseNodeRecord) error

	// GetByID retrieves an investigation by its ID.
	GetByID(ctx context.Context, id string) (*InvestigationRecord, error)

	// List retrieves investigations matching the given filters.
	List(ctx context.Context, filters InvestigationFilters) ([]*InvestigationRecord, error)

	// Delete removes an investigation and every node in it.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available investigation ID.
	GetNextID(ctx context.Context) (string, error)

	// SetIntegrityHold records why the investigation's tree is blocked from edits.
	SetIntegrityHold(ctx context.Context, id, reason string) error

	// ClearIntegrityHold lifts an integrity hold.
	ClearIntegrityHold(ctx context.Context, id string) error
}

// InvestigationRecord represents an investigation as stored in persistence.
type InvestigationRecord struct {
	ID            string
	Title         string
	Description   string
	IntegrityHold string
	CreatedAt     string
	UpdatedAt     string
}

// InvestigationFilters contains filter options for querying investigations.
type InvestigationFilters struct {
	OnHold bool
	Limit  int
}

// CauseNodeRepository is the Node Store: CRUD over flat cause rows scoped
// by investigation. Every method returns an error wrapping
// faulttree.ErrNotFound when the target row does not exist.
type CauseNodeRepository interface {
	// ListNodes returns every node of an investigation in storage order.
	ListNodes(ctx context.Context, investigationID string) ([]*CauseNodeRecord, error)

	// GetByID retrieves a single node.
	GetByID(ctx context.Context, id string) (*CauseNodeRecord, error)

	// Insert persists a new node. DisplayOrder on the record is ignored: the
	// store allocates max(sibling order)+1 in the same atomic step.
	// Returns the node id.
	Insert(ctx context.Context, node *CauseNodeRecord) (string, error)

	// Update applies the non-nil fields of patch to one node.
	Update(ctx context.Context, id string, patch CauseNodePatch) error

	// DeleteSubtree removes the node and all of its descendants atomically
	// and returns how many rows were removed.
	DeleteSubtree(ctx context.Context, id string) (int, error)

	// SwapDisplayOrder exchanges the display order of two sibling nodes.
	SwapDisplayOrder(ctx context.Context, idA, idB string) error
}

// CauseNodeRecord represents a cause node as stored in persistence.
type CauseNodeRecord struct {
	ID                    string
	InvestigationID       string
	ParentID              string // empty for the root
	Label                 string
	Kind                  string
	Status                string
	DisplayOrder          int
	CauseRole             string
	Justification         string
	JustificationImageRef string
	ClassificationRef     string
	Recommendation        string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CauseNodePatch lists the fields an Update may change. Nil means untouched;
// a pointer to "" clears the column.
type CauseNodePatch struct {
	Label                 *string
	Status                *string
	CauseRole             *string
	Justification         *string
	JustificationImageRef *string
	ClassificationRef     *string
	Recommendation        *string
}

// ClassificationCatalog resolves references into the external accident
// classification standard.
type ClassificationCatalog interface {
	// Resolve returns the code and description for a reference.
	Resolve(ref string) (code, description string, ok bool)

	// List returns every entry in catalog order.
	List() []ClassificationEntry
}

// ClassificationEntry is one code of the classification standard.
type ClassificationEntry struct {
	Ref         string
	Code        string
	Description string
	Group       string
}
