package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockInvestigationRepository implements secondary.InvestigationRepository for testing.
type mockInvestigationRepository struct {
	mu             sync.Mutex
	investigations map[string]*secondary.InvestigationRecord
	order          []string
	nodes          *mockCauseNodeRepository
	nextNum        int
	createErr      error
	getErr         error
	listErr        error
}

func newMockInvestigationRepository(nodes *mockCauseNodeRepository) *mockInvestigationRepository {
	return &mockInvestigationRepository{
		investigations: make(map[string]*secondary.InvestigationRecord),
		nodes:          nodes,
		nextNum:        1,
	}
}

func (m *mockInvestigationRepository) Create(ctx context.Context, inv *secondary.InvestigationRecord, root *secondary.CauseNodeRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.investigations[inv.ID]; exists {
		return fmt.Errorf("investigation %s already exists", inv.ID)
	}
	stored := *inv
	stored.CreatedAt = "2026-01-20T12:00:00Z"
	stored.UpdatedAt = stored.CreatedAt
	m.investigations[inv.ID] = &stored
	m.order = append(m.order, inv.ID)
	m.nextNum++
	if root != nil && m.nodes != nil {
		if _, err := m.nodes.Insert(ctx, root); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockInvestigationRepository) GetByID(ctx context.Context, id string) (*secondary.InvestigationRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if inv, ok := m.investigations[id]; ok {
		cp := *inv
		return &cp, nil
	}
	return nil, faulttree.NotFoundf("investigation %s", id)
}

func (m *mockInvestigationRepository) List(ctx context.Context, filters secondary.InvestigationFilters) ([]*secondary.InvestigationRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.InvestigationRecord
	for _, id := range m.order {
		inv := m.investigations[id]
		if filters.OnHold && inv.IntegrityHold == "" {
			continue
		}
		cp := *inv
		result = append(result, &cp)
	}
	return result, nil
}

func (m *mockInvestigationRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.investigations[id]; !ok {
		return faulttree.NotFoundf("investigation %s", id)
	}
	delete(m.investigations, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.nodes != nil {
		m.nodes.dropInvestigation(id)
	}
	return nil
}

func (m *mockInvestigationRepository) GetNextID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("INV-%03d", m.nextNum), nil
}

func (m *mockInvestigationRepository) SetIntegrityHold(ctx context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investigations[id]
	if !ok {
		return faulttree.NotFoundf("investigation %s", id)
	}
	inv.IntegrityHold = reason
	return nil
}

func (m *mockInvestigationRepository) ClearIntegrityHold(ctx context.Context, id string) error {
	return m.SetIntegrityHold(ctx, id, "")
}

// add registers an investigation directly, bypassing Create.
func (m *mockInvestigationRepository) add(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investigations[id] = &secondary.InvestigationRecord{ID: id, Title: "Investigation " + id}
	m.order = append(m.order, id)
}

// mockCauseNodeRepository is an in-memory Node Store.
type mockCauseNodeRepository struct {
	mu      sync.Mutex
	nodes   map[string]*secondary.CauseNodeRecord
	order   []string
	listErr error
	// insertDelay widens the read-max-then-insert window so that missing
	// serialization shows up as duplicate display orders.
	insertDelay time.Duration
	// blockUntilDone makes ListNodes wait for ctx cancellation.
	blockUntilDone bool
	// deleteExtra is added to the count DeleteSubtree reports.
	deleteExtra int
}

func newMockCauseNodeRepository() *mockCauseNodeRepository {
	return &mockCauseNodeRepository{nodes: make(map[string]*secondary.CauseNodeRecord)}
}

func (m *mockCauseNodeRepository) ListNodes(ctx context.Context, investigationID string) ([]*secondary.CauseNodeRecord, error) {
	if m.blockUntilDone {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.CauseNodeRecord
	for _, id := range m.order {
		n := m.nodes[id]
		if n.InvestigationID == investigationID {
			cp := *n
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockCauseNodeRepository) GetByID(ctx context.Context, id string) (*secondary.CauseNodeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.nodes[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, faulttree.NotFoundf("cause node %s", id)
}

func (m *mockCauseNodeRepository) Insert(ctx context.Context, rec *secondary.CauseNodeRecord) (string, error) {
	m.mu.Lock()
	maxOrder := 0
	for _, n := range m.nodes {
		if n.InvestigationID == rec.InvestigationID && n.ParentID == rec.ParentID && n.DisplayOrder > maxOrder {
			maxOrder = n.DisplayOrder
		}
	}
	m.mu.Unlock()

	if m.insertDelay > 0 {
		time.Sleep(m.insertDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *rec
	stored.DisplayOrder = maxOrder + 1
	m.nodes[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	return stored.ID, nil
}

func (m *mockCauseNodeRepository) Update(ctx context.Context, id string, patch secondary.CauseNodePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[id]
	if !ok {
		return faulttree.NotFoundf("cause node %s", id)
	}
	if patch.Label != nil {
		n.Label = *patch.Label
	}
	if patch.Status != nil {
		n.Status = *patch.Status
	}
	if patch.CauseRole != nil {
		n.CauseRole = *patch.CauseRole
	}
	if patch.Justification != nil {
		n.Justification = *patch.Justification
	}
	if patch.JustificationImageRef != nil {
		n.JustificationImageRef = *patch.JustificationImageRef
	}
	if patch.ClassificationRef != nil {
		n.ClassificationRef = *patch.ClassificationRef
	}
	if patch.Recommendation != nil {
		n.Recommendation = *patch.Recommendation
	}
	return nil
}

func (m *mockCauseNodeRepository) DeleteSubtree(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.nodes[id]; !ok {
		return 0, faulttree.NotFoundf("cause node %s", id)
	}
	doomed := map[string]bool{id: true}
	for changed := true; changed; {
		changed = false
		for _, n := range m.nodes {
			if !doomed[n.ID] && doomed[n.ParentID] {
				doomed[n.ID] = true
				changed = true
			}
		}
	}
	var kept []string
	for _, nid := range m.order {
		if doomed[nid] {
			delete(m.nodes, nid)
			continue
		}
		kept = append(kept, nid)
	}
	m.order = kept
	return len(doomed) + m.deleteExtra, nil
}

// count returns how many nodes an investigation holds.
func (m *mockCauseNodeRepository) count(investigationID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.nodes {
		if n.InvestigationID == investigationID {
			count++
		}
	}
	return count
}

func (m *mockCauseNodeRepository) SwapDisplayOrder(ctx context.Context, idA, idB string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, okA := m.nodes[idA]
	b, okB := m.nodes[idB]
	if !okA || !okB {
		return faulttree.NotFoundf("cause node %s or %s", idA, idB)
	}
	a.DisplayOrder, b.DisplayOrder = b.DisplayOrder, a.DisplayOrder
	return nil
}

// put stores a record as-is, for fixtures that need exact display orders
// or deliberately corrupt data.
func (m *mockCauseNodeRepository) put(rec secondary.CauseNodeRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.Status == "" {
		rec.Status = string(faulttree.StatusPending)
	}
	if rec.CauseRole == "" {
		rec.CauseRole = string(faulttree.RoleNone)
	}
	m.nodes[rec.ID] = &rec
	m.order = append(m.order, rec.ID)
}

func (m *mockCauseNodeRepository) dropInvestigation(investigationID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []string
	for _, id := range m.order {
		if m.nodes[id].InvestigationID == investigationID {
			delete(m.nodes, id)
			continue
		}
		kept = append(kept, id)
	}
	m.order = kept
}

func (m *mockCauseNodeRepository) displayOrders(investigationID, parentID string) []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var orders []int
	for _, n := range m.nodes {
		if n.InvestigationID == investigationID && n.ParentID == parentID {
			orders = append(orders, n.DisplayOrder)
		}
	}
	sort.Ints(orders)
	return orders
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	mu      sync.Mutex
	entries []string
	err     error
}

func (m *mockLogWriter) record(entry string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLogWriter) LogCreate(ctx context.Context, investigationID, nodeID string) error {
	return m.record("create " + nodeID)
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, investigationID, nodeID, fieldName, oldValue, newValue string) error {
	return m.record(fmt.Sprintf("update %s %s %s->%s", nodeID, fieldName, oldValue, newValue))
}

func (m *mockLogWriter) LogDelete(ctx context.Context, investigationID, nodeID string, removed int) error {
	return m.record(fmt.Sprintf("delete %s %d", nodeID, removed))
}

// mockAuditLogRepository implements secondary.AuditLogRepository for testing.
type mockAuditLogRepository struct {
	records []*secondary.AuditLogRecord
}

func (m *mockAuditLogRepository) Create(ctx context.Context, entry *secondary.AuditLogRecord) error {
	m.records = append(m.records, entry)
	return nil
}

func (m *mockAuditLogRepository) List(ctx context.Context, investigationID string, limit int) ([]*secondary.AuditLogRecord, error) {
	var result []*secondary.AuditLogRecord
	for _, r := range m.records {
		if r.InvestigationID == investigationID {
			result = append(result, r)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// mockCatalog implements secondary.ClassificationCatalog for testing.
type mockCatalog struct {
	entries map[string]secondary.ClassificationEntry
	calls   int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{entries: map[string]secondary.ClassificationEntry{
		"FALL-01": {Ref: "FALL-01", Code: "1.1", Description: "Fall from height"},
		"TOOL-03": {Ref: "TOOL-03", Code: "4.3", Description: "Unsuitable tool"},
	}}
}

func (m *mockCatalog) Resolve(ref string) (string, string, bool) {
	m.calls++
	e, ok := m.entries[ref]
	return e.Code, e.Description, ok
}

func (m *mockCatalog) List() []secondary.ClassificationEntry {
	var out []secondary.ClassificationEntry
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out
}

var errStoreDown = errors.New("database is closed")
