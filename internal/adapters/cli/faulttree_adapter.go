package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/fta/internal/ports/primary"
)

// FaultTreeAdapter translates cause commands to FaultTreeService calls.
type FaultTreeAdapter struct {
	service  primary.FaultTreeService
	renderer *TreeRenderer
	out      io.Writer
}

// NewFaultTreeAdapter creates a new FaultTreeAdapter with the given service.
func NewFaultTreeAdapter(service primary.FaultTreeService, out io.Writer, noColor bool) *FaultTreeAdapter {
	return &FaultTreeAdapter{
		service:  service,
		renderer: NewTreeRenderer(out, noColor),
		out:      out,
	}
}

// Tree renders the numbered tree of an investigation.
func (a *FaultTreeAdapter) Tree(ctx context.Context, investigationID string, asJSON bool) error {
	view, err := a.service.GetTree(ctx, investigationID)
	if err != nil {
		return err
	}
	if asJSON {
		return a.renderer.RenderJSON(view)
	}
	a.renderer.RenderText(view)
	return nil
}

// Add attaches a new cause.
func (a *FaultTreeAdapter) Add(ctx context.Context, investigationID, parentID, kind, label string) error {
	resp, err := a.service.CreateNode(ctx, primary.CreateNodeRequest{
		InvestigationID: investigationID,
		ParentID:        parentID,
		Label:           label,
		Kind:            kind,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Added %s %s under %s (order %d)\n", resp.Node.Kind, resp.NodeID, orRoot(resp.Node.ParentID), resp.Node.DisplayOrder)
	return nil
}

// Delete removes a cause and its subtree.
func (a *FaultTreeAdapter) Delete(ctx context.Context, nodeID string) error {
	resp, err := a.service.DeleteNode(ctx, nodeID)
	if err != nil {
		return err
	}
	noun := "nodes"
	if resp.Removed == 1 {
		noun = "node"
	}
	fmt.Fprintf(a.out, "✓ Deleted %s (%d %s removed)\n", resp.NodeID, resp.Removed, noun)
	return nil
}

// Transition changes the status of a cause.
func (a *FaultTreeAdapter) Transition(ctx context.Context, nodeID, status, justification, imageRef string) error {
	resp, err := a.service.TransitionStatus(ctx, primary.TransitionStatusRequest{
		NodeID:                nodeID,
		Status:                status,
		Justification:         justification,
		JustificationImageRef: imageRef,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s is now %s\n", resp.Node.ID, resp.Node.Status)
	if len(resp.ReviewNodeIDs) > 0 {
		fmt.Fprintf(a.out, "  ⚠ %d descendant(s) should be reviewed:\n", len(resp.ReviewNodeIDs))
		for _, id := range resp.ReviewNodeIDs {
			fmt.Fprintf(a.out, "    - %s\n", id)
		}
	}
	return nil
}

// Classify links (or with an empty ref, unlinks) a classification.
func (a *FaultTreeAdapter) Classify(ctx context.Context, nodeID, ref string) error {
	if err := a.service.LinkClassification(ctx, primary.LinkClassificationRequest{
		NodeID:            nodeID,
		ClassificationRef: ref,
	}); err != nil {
		return err
	}
	if ref == "" {
		fmt.Fprintf(a.out, "✓ Classification removed from %s\n", nodeID)
		return nil
	}
	fmt.Fprintf(a.out, "✓ %s classified as %s\n", nodeID, ref)
	return nil
}

// Role sets the cause role of a validated cause.
func (a *FaultTreeAdapter) Role(ctx context.Context, nodeID, role string) error {
	if err := a.service.SetCauseRole(ctx, primary.SetCauseRoleRequest{NodeID: nodeID, Role: role}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s role set to %s\n", nodeID, role)
	return nil
}

// Recommend sets the recommendation text of a cause.
func (a *FaultTreeAdapter) Recommend(ctx context.Context, nodeID, text string) error {
	if err := a.service.SetRecommendation(ctx, primary.SetRecommendationRequest{NodeID: nodeID, Recommendation: text}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Recommendation updated on %s\n", nodeID)
	return nil
}

// Label edits the text of a cause.
func (a *FaultTreeAdapter) Label(ctx context.Context, nodeID, label string) error {
	if err := a.service.UpdateLabel(ctx, primary.UpdateLabelRequest{NodeID: nodeID, Label: label}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Label updated on %s\n", nodeID)
	return nil
}

// Move swaps a cause with its neighbouring sibling.
func (a *FaultTreeAdapter) Move(ctx context.Context, nodeID, direction string) error {
	if err := a.service.MoveNode(ctx, primary.MoveNodeRequest{NodeID: nodeID, Direction: direction}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Moved %s %s\n", nodeID, direction)
	return nil
}

func orRoot(parentID string) string {
	if parentID == "" {
		return "(none)"
	}
	return parentID
}
