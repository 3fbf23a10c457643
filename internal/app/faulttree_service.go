package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/core/investigation"
	"github.com/example/fta/internal/ctxutil"
	"github.com/example/fta/internal/logger"
	"github.com/example/fta/internal/ports/primary"
	"github.com/example/fta/internal/ports/secondary"
)

// FaultTreeServiceImpl implements the FaultTreeService interface.
type FaultTreeServiceImpl struct {
	nodeRepo          secondary.CauseNodeRepository
	investigationRepo secondary.InvestigationRepository
	catalog           secondary.ClassificationCatalog
	logWriter         secondary.LogWriter
	locks             *InvestigationLocks
	log               *logger.Logger
	storeTimeout      time.Duration
	now               func() time.Time
	newID             func() string
}

// NewFaultTreeService creates a new FaultTreeService with injected dependencies.
// catalog and logWriter may be nil.
func NewFaultTreeService(
	nodeRepo secondary.CauseNodeRepository,
	investigationRepo secondary.InvestigationRepository,
	catalog secondary.ClassificationCatalog,
	logWriter secondary.LogWriter,
	locks *InvestigationLocks,
	log *logger.Logger,
	storeTimeout time.Duration,
) *FaultTreeServiceImpl {
	if locks == nil {
		locks = NewInvestigationLocks()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &FaultTreeServiceImpl{
		nodeRepo:          nodeRepo,
		investigationRepo: investigationRepo,
		catalog:           catalog,
		logWriter:         logWriter,
		locks:             locks,
		log:               log,
		storeTimeout:      storeTimeout,
		now:               time.Now,
		newID:             uuid.NewString,
	}
}

// snapshot is the locked, integrity-checked node set of one investigation
// that an edit works against.
type snapshot struct {
	investigationID string
	nodes           []faulttree.Node
}

// GetTree builds the numbered cause tree of an investigation.
func (s *FaultTreeServiceImpl) GetTree(ctx context.Context, investigationID string) (*primary.TreeView, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.investigationRepo.GetByID(ctx, investigationID); err != nil {
		return nil, classifyStoreErr("get investigation", err)
	}
	records, err := s.nodeRepo.ListNodes(ctx, investigationID)
	if err != nil {
		return nil, classifyStoreErr("list nodes", err)
	}

	root, codes, err := faulttree.BuildNumbered(investigationID, recordsToNodes(records), s.resolver())
	if err != nil {
		if errors.Is(err, faulttree.ErrNoRoot) {
			return nil, fmt.Errorf("investigation %s: %w", investigationID, err)
		}
		placeIntegrityHold(ctx, s.investigationRepo, s.log, err)
		return nil, err
	}

	return &primary.TreeView{
		InvestigationID: investigationID,
		Root:            root,
		Codes:           codes,
	}, nil
}

// GetNode retrieves a single cause.
func (s *FaultTreeServiceImpl) GetNode(ctx context.Context, nodeID string) (*primary.CauseNode, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	record, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, classifyStoreErr("get node", err)
	}
	return nodeToCauseNode(recordToNode(record)), nil
}

// CreateNode attaches a new cause. An empty parent with kind root recreates
// the top event of an investigation whose tree was emptied.
func (s *FaultTreeServiceImpl) CreateNode(ctx context.Context, req primary.CreateNodeRequest) (*primary.CreateNodeResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, unlock, err := s.begin(ctx, req.InvestigationID, req.ParentID == "")
	if err != nil {
		return nil, err
	}
	defer unlock()

	_, rootExists := faulttree.RootOf(snap.nodes)
	guardCtx := faulttree.CreateNodeContext{
		InvestigationID: req.InvestigationID,
		ParentID:        req.ParentID,
		RootExists:      rootExists,
		Kind:            faulttree.Kind(req.Kind),
		Label:           req.Label,
	}
	if req.ParentID != "" {
		if parent, ok := faulttree.FindNode(snap.nodes, req.ParentID); ok {
			guardCtx.ParentExists = true
			guardCtx.ParentInvestigationID = parent.InvestigationID
		} else {
			// Not in this investigation; look it up so a cross-investigation
			// parent gets its own message.
			other, err := s.nodeRepo.GetByID(ctx, req.ParentID)
			switch {
			case err == nil:
				guardCtx.ParentExists = true
				guardCtx.ParentInvestigationID = other.InvestigationID
			case !errors.Is(err, faulttree.ErrNotFound):
				return nil, classifyStoreErr("get parent node", err)
			}
		}
	}
	if err := faulttree.CanCreateNode(guardCtx).Error(); err != nil {
		return nil, err
	}

	record := &secondary.CauseNodeRecord{
		ID:              s.newID(),
		InvestigationID: req.InvestigationID,
		ParentID:        req.ParentID,
		Label:           strings.TrimSpace(req.Label),
		Kind:            req.Kind,
		Status:          string(faulttree.InitialStatus()),
		CauseRole:       string(faulttree.RoleNone),
		CreatedAt:       s.now().UTC(),
	}
	id, err := s.nodeRepo.Insert(ctx, record)
	if err != nil {
		return nil, classifyStoreErr("insert node", err)
	}
	created, err := s.nodeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, classifyStoreErr("fetch created node", err)
	}

	s.auditCreate(ctx, req.InvestigationID, id)
	s.mutationLog(ctx, req.InvestigationID, id).Info("cause created",
		"parent_id", req.ParentID,
		"kind", req.Kind,
		"display_order", created.DisplayOrder,
	)

	return &primary.CreateNodeResponse{
		NodeID: id,
		Node:   nodeToCauseNode(recordToNode(created)),
	}, nil
}

// DeleteNode removes a cause and its entire subtree.
func (s *FaultTreeServiceImpl) DeleteNode(ctx context.Context, nodeID string) (*primary.DeleteNodeResponse, error) {
	if err := requireNodeID(nodeID); err != nil {
		return nil, err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, node, unlock, err := s.beginNode(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	guard := faulttree.CanDeleteNode(faulttree.DeleteNodeContext{
		NodeID:    node.ID,
		IsRoot:    node.IsRoot(),
		NodeCount: len(snap.nodes),
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	closure := faulttree.SubtreeClosure(snap.nodes, nodeID)
	removed, err := s.nodeRepo.DeleteSubtree(ctx, nodeID)
	if err != nil {
		return nil, classifyStoreErr("delete subtree", err)
	}
	if removed != len(closure) {
		s.mutationLog(ctx, snap.investigationID, nodeID).Warn("subtree delete count differs from snapshot",
			"removed", removed,
			"expected", len(closure),
			"expected_ids", closure,
		)
	}

	if s.logWriter != nil {
		if err := s.logWriter.LogDelete(ctx, snap.investigationID, nodeID, removed); err != nil {
			s.log.Warn("audit log write failed", "investigation_id", snap.investigationID, "node_id", nodeID, "error", err)
		}
	}
	s.mutationLog(ctx, snap.investigationID, nodeID).Info("cause subtree deleted", "removed", removed)

	return &primary.DeleteNodeResponse{NodeID: nodeID, Removed: removed}, nil
}

// TransitionStatus moves a cause between pending, validated and discarded.
func (s *FaultTreeServiceImpl) TransitionStatus(ctx context.Context, req primary.TransitionStatusRequest) (*primary.TransitionStatusResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, node, unlock, err := s.beginNode(ctx, req.NodeID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result, err := faulttree.ApplyTransition(node, faulttree.TransitionRequest{
		Target:                faulttree.Status(req.Status),
		Justification:         strings.TrimSpace(req.Justification),
		JustificationImageRef: strings.TrimSpace(req.JustificationImageRef),
	}, snap.nodes)
	if err != nil {
		return nil, err
	}

	updated := result.Node
	status := string(updated.Status)
	patch := secondary.CauseNodePatch{Status: &status}
	if updated.Justification != node.Justification {
		patch.Justification = &updated.Justification
	}
	if updated.JustificationImageRef != node.JustificationImageRef {
		patch.JustificationImageRef = &updated.JustificationImageRef
	}
	if err := s.nodeRepo.Update(ctx, node.ID, patch); err != nil {
		return nil, classifyStoreErr("update node status", err)
	}

	s.auditUpdate(ctx, snap.investigationID, node.ID, "status", string(node.Status), status)
	s.auditUpdate(ctx, snap.investigationID, node.ID, "justification", node.Justification, updated.Justification)
	s.auditUpdate(ctx, snap.investigationID, node.ID, "justification_image_ref", node.JustificationImageRef, updated.JustificationImageRef)

	log := s.mutationLog(ctx, snap.investigationID, node.ID)
	log.Info("cause status changed", "from", node.Status, "to", updated.Status)
	if result.LeftValidated && len(result.ReviewIDs) > 0 {
		log.Warn("cause left validated, descendants need re-review", "review_node_ids", result.ReviewIDs)
	}

	review := result.ReviewIDs
	if review == nil {
		review = []string{}
	}
	return &primary.TransitionStatusResponse{
		Node:          nodeToCauseNode(updated),
		ReviewNodeIDs: review,
	}, nil
}

// LinkClassification links a validated cause to a standard code.
func (s *FaultTreeServiceImpl) LinkClassification(ctx context.Context, req primary.LinkClassificationRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, node, unlock, err := s.beginNode(ctx, req.NodeID)
	if err != nil {
		return err
	}
	defer unlock()

	ref := strings.TrimSpace(req.ClassificationRef)
	updated, err := faulttree.ApplyClassification(node, ref)
	if err != nil {
		return err
	}
	if updated.ClassificationRef == node.ClassificationRef {
		return nil
	}
	if ref != "" && s.catalog != nil {
		if _, _, ok := s.catalog.Resolve(ref); !ok {
			s.log.Warn("classification reference not in catalog", "node_id", node.ID, "classification_ref", ref)
		}
	}

	if err := s.nodeRepo.Update(ctx, node.ID, secondary.CauseNodePatch{ClassificationRef: &updated.ClassificationRef}); err != nil {
		return classifyStoreErr("update node classification", err)
	}

	s.auditUpdate(ctx, snap.investigationID, node.ID, "classification_ref", node.ClassificationRef, updated.ClassificationRef)
	s.mutationLog(ctx, snap.investigationID, node.ID).Info("cause classification linked", "classification_ref", updated.ClassificationRef)
	return nil
}

// SetCauseRole marks a validated cause as basic, contributing or neither.
func (s *FaultTreeServiceImpl) SetCauseRole(ctx context.Context, req primary.SetCauseRoleRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, node, unlock, err := s.beginNode(ctx, req.NodeID)
	if err != nil {
		return err
	}
	defer unlock()

	updated, err := faulttree.ApplyCauseRole(node, faulttree.CauseRole(req.Role))
	if err != nil {
		return err
	}
	if updated.Role == node.Role {
		return nil
	}

	role := string(updated.Role)
	if err := s.nodeRepo.Update(ctx, node.ID, secondary.CauseNodePatch{CauseRole: &role}); err != nil {
		return classifyStoreErr("update node cause role", err)
	}

	s.auditUpdate(ctx, snap.investigationID, node.ID, "cause_role", string(node.Role), role)
	s.mutationLog(ctx, snap.investigationID, node.ID).Info("cause role set", "from", node.Role, "to", role)
	return nil
}

// SetRecommendation sets the free-text recommendation of a cause.
func (s *FaultTreeServiceImpl) SetRecommendation(ctx context.Context, req primary.SetRecommendationRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, node, unlock, err := s.beginNode(ctx, req.NodeID)
	if err != nil {
		return err
	}
	defer unlock()

	text := strings.TrimSpace(req.Recommendation)
	if text == node.Recommendation {
		return nil
	}
	if err := s.nodeRepo.Update(ctx, node.ID, secondary.CauseNodePatch{Recommendation: &text}); err != nil {
		return classifyStoreErr("update node recommendation", err)
	}

	s.auditUpdate(ctx, snap.investigationID, node.ID, "recommendation", node.Recommendation, text)
	s.mutationLog(ctx, snap.investigationID, node.ID).Info("cause recommendation set")
	return nil
}

// UpdateLabel edits the text of a cause.
func (s *FaultTreeServiceImpl) UpdateLabel(ctx context.Context, req primary.UpdateLabelRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, node, unlock, err := s.beginNode(ctx, req.NodeID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := faulttree.CanUpdateLabel(faulttree.UpdateLabelContext{NodeID: node.ID, Label: req.Label}).Error(); err != nil {
		return err
	}
	label := strings.TrimSpace(req.Label)
	if label == node.Label {
		return nil
	}
	if err := s.nodeRepo.Update(ctx, node.ID, secondary.CauseNodePatch{Label: &label}); err != nil {
		return classifyStoreErr("update node label", err)
	}

	s.auditUpdate(ctx, snap.investigationID, node.ID, "label", node.Label, label)
	s.mutationLog(ctx, snap.investigationID, node.ID).Info("cause label updated")
	return nil
}

// MoveNode swaps a cause with its previous or next sibling.
func (s *FaultTreeServiceImpl) MoveNode(ctx context.Context, req primary.MoveNodeRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	snap, node, unlock, err := s.beginNode(ctx, req.NodeID)
	if err != nil {
		return err
	}
	defer unlock()

	sibling, hasSibling := faulttree.AdjacentSibling(snap.nodes, node.ID, req.Direction)
	guard := faulttree.CanMoveNode(faulttree.MoveNodeContext{
		NodeID:     node.ID,
		IsRoot:     node.IsRoot(),
		Direction:  req.Direction,
		HasSibling: hasSibling,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	if err := s.nodeRepo.SwapDisplayOrder(ctx, node.ID, sibling.ID); err != nil {
		return classifyStoreErr("swap display order", err)
	}

	s.auditUpdate(ctx, snap.investigationID, node.ID, "display_order",
		strconv.Itoa(node.DisplayOrder), strconv.Itoa(sibling.DisplayOrder))
	s.auditUpdate(ctx, snap.investigationID, sibling.ID, "display_order",
		strconv.Itoa(sibling.DisplayOrder), strconv.Itoa(node.DisplayOrder))
	s.mutationLog(ctx, snap.investigationID, node.ID).Info("cause moved", "direction", req.Direction, "swapped_with", sibling.ID)
	return nil
}

// begin locks an investigation and loads its checked node snapshot.
// allowEmpty accepts an investigation without a root; only root re-creation
// needs that. The returned unlock func must be called by the caller.
func (s *FaultTreeServiceImpl) begin(ctx context.Context, investigationID string, allowEmpty bool) (*snapshot, func(), error) {
	unlock := s.locks.Lock(investigationID)
	snap, err := s.load(ctx, investigationID, allowEmpty)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return snap, unlock, nil
}

// beginNode resolves the investigation of nodeID, then behaves like begin.
func (s *FaultTreeServiceImpl) beginNode(ctx context.Context, nodeID string) (*snapshot, faulttree.Node, func(), error) {
	record, err := s.nodeRepo.GetByID(ctx, nodeID)
	if err != nil {
		return nil, faulttree.Node{}, nil, classifyStoreErr("get node", err)
	}
	snap, unlock, err := s.begin(ctx, record.InvestigationID, false)
	if err != nil {
		return nil, faulttree.Node{}, nil, err
	}
	// Re-read from the locked snapshot; the node may have gone meanwhile.
	node, ok := faulttree.FindNode(snap.nodes, nodeID)
	if !ok {
		unlock()
		return nil, faulttree.Node{}, nil, faulttree.NotFoundf("cause node %s", nodeID)
	}
	return snap, node, unlock, nil
}

func (s *FaultTreeServiceImpl) load(ctx context.Context, investigationID string, allowEmpty bool) (*snapshot, error) {
	inv, err := s.investigationRepo.GetByID(ctx, investigationID)
	if err != nil {
		return nil, classifyStoreErr("get investigation", err)
	}
	guard := investigation.CanMutateTree(investigation.MutationContext{
		InvestigationID: investigationID,
		IntegrityHold:   inv.IntegrityHold,
	})
	if !guard.Allowed {
		return nil, &holdError{reason: guard.Reason}
	}

	records, err := s.nodeRepo.ListNodes(ctx, investigationID)
	if err != nil {
		return nil, classifyStoreErr("list nodes", err)
	}
	nodes := recordsToNodes(records)

	if err := faulttree.CheckIntegrity(investigationID, nodes); err != nil {
		if !errors.Is(err, faulttree.ErrNoRoot) {
			placeIntegrityHold(ctx, s.investigationRepo, s.log, err)
			return nil, err
		}
		if !allowEmpty {
			return nil, fmt.Errorf("investigation %s: %w", investigationID, err)
		}
	}
	return &snapshot{investigationID: investigationID, nodes: nodes}, nil
}

func (s *FaultTreeServiceImpl) resolver() faulttree.Resolver {
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Resolve
}

func (s *FaultTreeServiceImpl) mutationLog(ctx context.Context, investigationID, nodeID string) *logger.Logger {
	return s.log.With(
		"investigation_id", investigationID,
		"node_id", nodeID,
		"actor", ctxutil.ActorFromContext(ctx),
	)
}

// Audit writes are best-effort: a failure is logged, never returned.

func (s *FaultTreeServiceImpl) auditCreate(ctx context.Context, investigationID, nodeID string) {
	if s.logWriter == nil {
		return
	}
	if err := s.logWriter.LogCreate(ctx, investigationID, nodeID); err != nil {
		s.log.Warn("audit log write failed", "investigation_id", investigationID, "node_id", nodeID, "error", err)
	}
}

func (s *FaultTreeServiceImpl) auditUpdate(ctx context.Context, investigationID, nodeID, field, oldValue, newValue string) {
	if s.logWriter == nil || oldValue == newValue {
		return
	}
	if err := s.logWriter.LogUpdate(ctx, investigationID, nodeID, field, oldValue, newValue); err != nil {
		s.log.Warn("audit log write failed", "investigation_id", investigationID, "node_id", nodeID, "field", field, "error", err)
	}
}

func requireNodeID(nodeID string) error {
	if strings.TrimSpace(nodeID) == "" {
		return &faulttree.ValidationError{Rule: faulttree.RuleInvalidRequest, Message: "node_id is required"}
	}
	return nil
}

// Ensure FaultTreeServiceImpl implements the interface
var _ primary.FaultTreeService = (*FaultTreeServiceImpl)(nil)
