package cli

import (
	"context"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/ports/primary"
	"github.com/example/fta/internal/ports/secondary"
)

// mockInvestigationService implements primary.InvestigationService for testing.
type mockInvestigationService struct {
	createFn   func(ctx context.Context, req primary.CreateInvestigationRequest) (*primary.CreateInvestigationResponse, error)
	listFn     func(ctx context.Context, filters primary.InvestigationFilters) ([]*primary.Investigation, error)
	getFn      func(ctx context.Context, id string) (*primary.Investigation, error)
	deleteFn   func(ctx context.Context, id string) error
	checkFn    func(ctx context.Context, id string) (*primary.IntegrityReport, error)
	checkAllFn func(ctx context.Context) ([]*primary.IntegrityReport, error)
	releaseFn  func(ctx context.Context, id string) error
	auditFn    func(ctx context.Context, id string, limit int) ([]*primary.AuditEntry, error)

	lastCreateReq primary.CreateInvestigationRequest
	lastFilters   primary.InvestigationFilters
}

func (m *mockInvestigationService) CreateInvestigation(ctx context.Context, req primary.CreateInvestigationRequest) (*primary.CreateInvestigationResponse, error) {
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.CreateInvestigationResponse{
		InvestigationID: "INV-001",
		RootNodeID:      "root-1",
		Investigation:   &primary.Investigation{ID: "INV-001", Title: req.Title},
	}, nil
}

func (m *mockInvestigationService) GetInvestigation(ctx context.Context, id string) (*primary.Investigation, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &primary.Investigation{ID: id, Title: "Scaffold fall", CreatedAt: "2026-01-20T12:00:00Z"}, nil
}

func (m *mockInvestigationService) ListInvestigations(ctx context.Context, filters primary.InvestigationFilters) ([]*primary.Investigation, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return []*primary.Investigation{}, nil
}

func (m *mockInvestigationService) DeleteInvestigation(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockInvestigationService) CheckIntegrity(ctx context.Context, id string) (*primary.IntegrityReport, error) {
	if m.checkFn != nil {
		return m.checkFn(ctx, id)
	}
	return &primary.IntegrityReport{InvestigationID: id, OK: true}, nil
}

func (m *mockInvestigationService) CheckAllIntegrity(ctx context.Context) ([]*primary.IntegrityReport, error) {
	if m.checkAllFn != nil {
		return m.checkAllFn(ctx)
	}
	return []*primary.IntegrityReport{}, nil
}

func (m *mockInvestigationService) ReleaseIntegrityHold(ctx context.Context, id string) error {
	if m.releaseFn != nil {
		return m.releaseFn(ctx, id)
	}
	return nil
}

func (m *mockInvestigationService) GetAuditLog(ctx context.Context, id string, limit int) ([]*primary.AuditEntry, error) {
	if m.auditFn != nil {
		return m.auditFn(ctx, id, limit)
	}
	return []*primary.AuditEntry{}, nil
}

// mockFaultTreeService implements primary.FaultTreeService for testing.
type mockFaultTreeService struct {
	treeFn       func(ctx context.Context, id string) (*primary.TreeView, error)
	createFn     func(ctx context.Context, req primary.CreateNodeRequest) (*primary.CreateNodeResponse, error)
	deleteFn     func(ctx context.Context, id string) (*primary.DeleteNodeResponse, error)
	transitionFn func(ctx context.Context, req primary.TransitionStatusRequest) (*primary.TransitionStatusResponse, error)
	err          error

	lastCreateReq     primary.CreateNodeRequest
	lastTransitionReq primary.TransitionStatusRequest
	lastClassifyReq   primary.LinkClassificationRequest
	lastRoleReq       primary.SetCauseRoleRequest
	lastMoveReq       primary.MoveNodeRequest
}

func (m *mockFaultTreeService) GetTree(ctx context.Context, id string) (*primary.TreeView, error) {
	if m.treeFn != nil {
		return m.treeFn(ctx, id)
	}
	return sampleView(), nil
}

func (m *mockFaultTreeService) GetNode(ctx context.Context, id string) (*primary.CauseNode, error) {
	return &primary.CauseNode{ID: id}, m.err
}

func (m *mockFaultTreeService) CreateNode(ctx context.Context, req primary.CreateNodeRequest) (*primary.CreateNodeResponse, error) {
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.CreateNodeResponse{
		NodeID: "node-9",
		Node:   &primary.CauseNode{ID: "node-9", ParentID: req.ParentID, Kind: req.Kind, DisplayOrder: 2},
	}, nil
}

func (m *mockFaultTreeService) DeleteNode(ctx context.Context, id string) (*primary.DeleteNodeResponse, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return &primary.DeleteNodeResponse{NodeID: id, Removed: 1}, nil
}

func (m *mockFaultTreeService) TransitionStatus(ctx context.Context, req primary.TransitionStatusRequest) (*primary.TransitionStatusResponse, error) {
	m.lastTransitionReq = req
	if m.transitionFn != nil {
		return m.transitionFn(ctx, req)
	}
	return &primary.TransitionStatusResponse{
		Node:          &primary.CauseNode{ID: req.NodeID, Status: req.Status},
		ReviewNodeIDs: []string{},
	}, nil
}

func (m *mockFaultTreeService) LinkClassification(ctx context.Context, req primary.LinkClassificationRequest) error {
	m.lastClassifyReq = req
	return m.err
}

func (m *mockFaultTreeService) SetCauseRole(ctx context.Context, req primary.SetCauseRoleRequest) error {
	m.lastRoleReq = req
	return m.err
}

func (m *mockFaultTreeService) SetRecommendation(ctx context.Context, req primary.SetRecommendationRequest) error {
	return m.err
}

func (m *mockFaultTreeService) UpdateLabel(ctx context.Context, req primary.UpdateLabelRequest) error {
	return m.err
}

func (m *mockFaultTreeService) MoveNode(ctx context.Context, req primary.MoveNodeRequest) error {
	m.lastMoveReq = req
	return m.err
}

// mockCatalog implements secondary.ClassificationCatalog for testing.
type mockCatalog struct {
	entries []secondary.ClassificationEntry
}

func (m *mockCatalog) Resolve(ref string) (string, string, bool) {
	for _, e := range m.entries {
		if e.Ref == ref {
			return e.Code, e.Description, true
		}
	}
	return "", "", false
}

func (m *mockCatalog) List() []secondary.ClassificationEntry {
	return m.entries
}

// sampleView is root -> H1 (validated, basic) -> [leaf fact with classification], H2 discarded.
func sampleView() *primary.TreeView {
	leaf := &faulttree.TreeNode{
		ID: "f-1", Label: "Guard rail removed", Kind: faulttree.KindFact, Status: faulttree.StatusValidated,
		Classification: &faulttree.Classification{Ref: "FALL-01", Code: "1.1", Description: "Fall from height"},
		Justification:  "Site photo 14", Children: []*faulttree.TreeNode{},
	}
	basic := &faulttree.TreeNode{
		ID: "h-1", Label: "Edge protection missing", Kind: faulttree.KindHypothesis, Status: faulttree.StatusValidated,
		Code: "CB1", IsBasicCause: true, Recommendation: "Daily edge check", Children: []*faulttree.TreeNode{leaf},
	}
	discarded := &faulttree.TreeNode{
		ID: "h-2", Label: "Worker intoxicated", Kind: faulttree.KindHypothesis, Status: faulttree.StatusDiscarded,
		Code: "H1", Justification: "Test negative", Children: []*faulttree.TreeNode{},
	}
	root := &faulttree.TreeNode{
		ID: "root-1", Label: "Worker fell from scaffold", Kind: faulttree.KindRoot, Status: faulttree.StatusPending,
		Children: []*faulttree.TreeNode{basic, discarded},
	}
	return &primary.TreeView{InvestigationID: "INV-001", Root: root}
}
