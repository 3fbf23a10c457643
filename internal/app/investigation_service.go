package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/core/investigation"
	"github.com/example/fta/internal/ctxutil"
	"github.com/example/fta/internal/logger"
	"github.com/example/fta/internal/ports/primary"
	"github.com/example/fta/internal/ports/secondary"
)

// checkAllConcurrency bounds how many investigations CheckAllIntegrity
// verifies at once.
const checkAllConcurrency = 4

// createLockKey serializes investigation id allocation.
const createLockKey = "investigation:create"

// InvestigationServiceImpl implements the InvestigationService interface.
type InvestigationServiceImpl struct {
	investigationRepo secondary.InvestigationRepository
	nodeRepo          secondary.CauseNodeRepository
	auditRepo         secondary.AuditLogRepository
	logWriter         secondary.LogWriter
	locks             *InvestigationLocks
	log               *logger.Logger
	storeTimeout      time.Duration
	now               func() time.Time
	newID             func() string
}

// NewInvestigationService creates a new InvestigationService with injected dependencies.
// auditRepo and logWriter may be nil.
func NewInvestigationService(
	investigationRepo secondary.InvestigationRepository,
	nodeRepo secondary.CauseNodeRepository,
	auditRepo secondary.AuditLogRepository,
	logWriter secondary.LogWriter,
	locks *InvestigationLocks,
	log *logger.Logger,
	storeTimeout time.Duration,
) *InvestigationServiceImpl {
	if locks == nil {
		locks = NewInvestigationLocks()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &InvestigationServiceImpl{
		investigationRepo: investigationRepo,
		nodeRepo:          nodeRepo,
		auditRepo:         auditRepo,
		logWriter:         logWriter,
		locks:             locks,
		log:               log,
		storeTimeout:      storeTimeout,
		now:               time.Now,
		newID:             uuid.NewString,
	}
}

// CreateInvestigation creates a new investigation and its root event.
func (s *InvestigationServiceImpl) CreateInvestigation(ctx context.Context, req primary.CreateInvestigationRequest) (*primary.CreateInvestigationResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	guard := investigation.CanCreateInvestigation(investigation.CreateInvestigationContext{
		Title:     req.Title,
		RootLabel: req.RootLabel,
	})
	if !guard.Allowed {
		return nil, &faulttree.ValidationError{Rule: faulttree.RuleLabelRequired, Message: guard.Reason}
	}

	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	unlock := s.locks.Lock(createLockKey)
	defer unlock()

	nextID, err := s.investigationRepo.GetNextID(ctx)
	if err != nil {
		return nil, classifyStoreErr("generate investigation ID", err)
	}

	record := &secondary.InvestigationRecord{
		ID:          nextID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
	}
	root := &secondary.CauseNodeRecord{
		ID:              s.newID(),
		InvestigationID: nextID,
		Label:           strings.TrimSpace(req.RootLabel),
		Kind:            string(faulttree.KindRoot),
		Status:          string(faulttree.InitialStatus()),
		CauseRole:       string(faulttree.RoleNone),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.investigationRepo.Create(ctx, record, root); err != nil {
		return nil, classifyStoreErr("create investigation", err)
	}

	created, err := s.investigationRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, classifyStoreErr("fetch created investigation", err)
	}

	if s.logWriter != nil {
		if err := s.logWriter.LogCreate(ctx, nextID, root.ID); err != nil {
			s.log.Warn("audit log write failed", "investigation_id", nextID, "node_id", root.ID, "error", err)
		}
	}
	s.log.Info("investigation created",
		"investigation_id", nextID,
		"root_node_id", root.ID,
		"actor", ctxutil.ActorFromContext(ctx),
	)

	return &primary.CreateInvestigationResponse{
		InvestigationID: created.ID,
		RootNodeID:      root.ID,
		Investigation:   s.recordToInvestigation(created),
	}, nil
}

// GetInvestigation retrieves an investigation by ID.
func (s *InvestigationServiceImpl) GetInvestigation(ctx context.Context, investigationID string) (*primary.Investigation, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	record, err := s.investigationRepo.GetByID(ctx, investigationID)
	if err != nil {
		return nil, classifyStoreErr("get investigation", err)
	}
	return s.recordToInvestigation(record), nil
}

// ListInvestigations lists investigations with optional filters.
func (s *InvestigationServiceImpl) ListInvestigations(ctx context.Context, filters primary.InvestigationFilters) ([]*primary.Investigation, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	records, err := s.investigationRepo.List(ctx, secondary.InvestigationFilters{
		OnHold: filters.OnHold,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, classifyStoreErr("list investigations", err)
	}

	investigations := make([]*primary.Investigation, len(records))
	for i, r := range records {
		investigations[i] = s.recordToInvestigation(r)
	}
	return investigations, nil
}

// DeleteInvestigation deletes an investigation and its whole cause tree.
func (s *InvestigationServiceImpl) DeleteInvestigation(ctx context.Context, investigationID string) error {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	unlock := s.locks.Lock(investigationID)
	defer unlock()

	if err := s.investigationRepo.Delete(ctx, investigationID); err != nil {
		return classifyStoreErr("delete investigation", err)
	}
	s.log.Info("investigation deleted",
		"investigation_id", investigationID,
		"actor", ctxutil.ActorFromContext(ctx),
	)
	return nil
}

// CheckIntegrity verifies the cause tree of one investigation. A failing
// check places the investigation on integrity hold; the failure is reported
// in the result, not as an error.
func (s *InvestigationServiceImpl) CheckIntegrity(ctx context.Context, investigationID string) (*primary.IntegrityReport, error) {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.investigationRepo.GetByID(ctx, investigationID); err != nil {
		return nil, classifyStoreErr("get investigation", err)
	}
	report, err := s.inspect(ctx, investigationID)
	if err != nil {
		return nil, err
	}
	if !report.OK {
		placeIntegrityHold(ctx, s.investigationRepo, s.log, &faulttree.IntegrityError{
			InvestigationID: investigationID,
			Problem:         report.Problem,
			NodeIDs:         report.NodeIDs,
		})
	}
	return report, nil
}

// CheckAllIntegrity verifies every investigation concurrently. Reports come
// back in listing order.
func (s *InvestigationServiceImpl) CheckAllIntegrity(ctx context.Context) ([]*primary.IntegrityReport, error) {
	listCtx, cancel := storeContext(ctx, s.storeTimeout)
	records, err := s.investigationRepo.List(listCtx, secondary.InvestigationFilters{})
	cancel()
	if err != nil {
		return nil, classifyStoreErr("list investigations", err)
	}

	reports := make([]*primary.IntegrityReport, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkAllConcurrency)
	for i, r := range records {
		g.Go(func() error {
			report, err := s.CheckIntegrity(gctx, r.ID)
			if err != nil {
				return fmt.Errorf("check %s: %w", r.ID, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ReleaseIntegrityHold lifts a hold once the tree passes the check again.
func (s *InvestigationServiceImpl) ReleaseIntegrityHold(ctx context.Context, investigationID string) error {
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	unlock := s.locks.Lock(investigationID)
	defer unlock()

	record, err := s.investigationRepo.GetByID(ctx, investigationID)
	if err != nil {
		return classifyStoreErr("get investigation", err)
	}
	report, err := s.inspect(ctx, investigationID)
	if err != nil {
		return err
	}

	guard := investigation.CanReleaseHold(investigation.ReleaseHoldContext{
		InvestigationID: investigationID,
		IntegrityHold:   record.IntegrityHold,
		CheckPassed:     report.OK,
		CheckProblem:    report.Problem,
	})
	if !guard.Allowed {
		return &faulttree.ValidationError{Rule: faulttree.RuleInvalidRequest, Message: guard.Reason}
	}

	if err := s.investigationRepo.ClearIntegrityHold(ctx, investigationID); err != nil {
		return classifyStoreErr("clear integrity hold", err)
	}
	s.log.Info("integrity hold released",
		"investigation_id", investigationID,
		"previous_problem", record.IntegrityHold,
		"actor", ctxutil.ActorFromContext(ctx),
	)
	return nil
}

// GetAuditLog returns recent audit entries for an investigation.
func (s *InvestigationServiceImpl) GetAuditLog(ctx context.Context, investigationID string, limit int) ([]*primary.AuditEntry, error) {
	if s.auditRepo == nil {
		return []*primary.AuditEntry{}, nil
	}
	ctx, cancel := storeContext(ctx, s.storeTimeout)
	defer cancel()

	records, err := s.auditRepo.List(ctx, investigationID, limit)
	if err != nil {
		return nil, classifyStoreErr("list audit log", err)
	}
	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.AuditEntry{
			NodeID:    r.NodeID,
			Actor:     r.ActorID,
			Action:    r.Action,
			Field:     r.FieldName,
			OldValue:  r.OldValue,
			NewValue:  r.NewValue,
			CreatedAt: r.CreatedAt,
		}
	}
	return entries, nil
}

// inspect runs the structural checks without side effects.
func (s *InvestigationServiceImpl) inspect(ctx context.Context, investigationID string) (*primary.IntegrityReport, error) {
	records, err := s.nodeRepo.ListNodes(ctx, investigationID)
	if err != nil {
		return nil, classifyStoreErr("list nodes", err)
	}
	nodes := recordsToNodes(records)

	report := &primary.IntegrityReport{
		InvestigationID: investigationID,
		OK:              true,
		NodeCount:       len(nodes),
	}
	err = faulttree.CheckIntegrity(investigationID, nodes)
	var ie *faulttree.IntegrityError
	switch {
	case err == nil:
	case errors.Is(err, faulttree.ErrNoRoot):
		report.Empty = true
	case errors.As(err, &ie):
		report.OK = false
		report.Problem = ie.Problem
		report.NodeIDs = ie.NodeIDs
	default:
		return nil, err
	}

	if report.OK && !report.Empty {
		for _, n := range nodes {
			path, reached := faulttree.PathToRoot(nodes, n.ID)
			if !reached {
				report.OK = false
				report.Problem = "cause does not reach the root event"
				report.NodeIDs = path
				break
			}
			if depth := len(path) - 1; depth > report.Depth {
				report.Depth = depth
			}
		}
	}

	for _, parentID := range faulttree.DuplicateSiblingOrders(nodes) {
		report.Warnings = append(report.Warnings, fmt.Sprintf("children of %s share a display order", parentID))
	}
	return report, nil
}

// Helper methods

func (s *InvestigationServiceImpl) recordToInvestigation(r *secondary.InvestigationRecord) *primary.Investigation {
	return &primary.Investigation{
		ID:            r.ID,
		Title:         r.Title,
		Description:   r.Description,
		IntegrityHold: r.IntegrityHold,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Ensure InvestigationServiceImpl implements the interface
var _ primary.InvestigationService = (*InvestigationServiceImpl)(nil)
