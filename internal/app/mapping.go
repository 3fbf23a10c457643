package app

import (
	"context"
	"errors"
	"time"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/logger"
	"github.com/example/fta/internal/ports/primary"
	"github.com/example/fta/internal/ports/secondary"
)

func recordToNode(r *secondary.CauseNodeRecord) faulttree.Node {
	role := faulttree.CauseRole(r.CauseRole)
	if role == "" {
		role = faulttree.RoleNone
	}
	return faulttree.Node{
		ID:                    r.ID,
		InvestigationID:       r.InvestigationID,
		ParentID:              r.ParentID,
		Label:                 r.Label,
		Kind:                  faulttree.Kind(r.Kind),
		Status:                faulttree.Status(r.Status),
		DisplayOrder:          r.DisplayOrder,
		Role:                  role,
		Justification:         r.Justification,
		JustificationImageRef: r.JustificationImageRef,
		ClassificationRef:     r.ClassificationRef,
		Recommendation:        r.Recommendation,
		CreatedAt:             r.CreatedAt,
	}
}

func recordsToNodes(records []*secondary.CauseNodeRecord) []faulttree.Node {
	nodes := make([]faulttree.Node, len(records))
	for i, r := range records {
		nodes[i] = recordToNode(r)
	}
	return nodes
}

func nodeToCauseNode(n faulttree.Node) *primary.CauseNode {
	return &primary.CauseNode{
		ID:                    n.ID,
		InvestigationID:       n.InvestigationID,
		ParentID:              n.ParentID,
		Label:                 n.Label,
		Kind:                  string(n.Kind),
		Status:                string(n.Status),
		DisplayOrder:          n.DisplayOrder,
		IsBasicCause:          n.IsBasicCause(),
		IsContributingCause:   n.IsContributingCause(),
		Justification:         n.Justification,
		JustificationImageRef: n.JustificationImageRef,
		ClassificationRef:     n.ClassificationRef,
		Recommendation:        n.Recommendation,
		CreatedAt:             n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// placeIntegrityHold records an integrity failure on the investigation so
// that further edits are refused until an operator releases it. A failure
// to persist the hold is logged; the integrity error itself is still
// returned to the caller.
func placeIntegrityHold(ctx context.Context, repo secondary.InvestigationRepository, log *logger.Logger, err error) {
	var ie *faulttree.IntegrityError
	if !errors.As(err, &ie) {
		return
	}
	log.Error("cause tree failed integrity check",
		"investigation_id", ie.InvestigationID,
		"problem", ie.Problem,
		"node_ids", ie.NodeIDs,
	)
	if holdErr := repo.SetIntegrityHold(ctx, ie.InvestigationID, ie.Problem); holdErr != nil {
		log.Error("failed to record integrity hold",
			"investigation_id", ie.InvestigationID,
			"error", holdErr,
		)
	}
}
