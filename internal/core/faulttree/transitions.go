package faulttree

// TransitionRequest describes a status change as supplied by the caller.
type TransitionRequest struct {
	Target                Status
	Justification         string
	JustificationImageRef string
}

// TransitionResult is the value-object outcome of a status change.
type TransitionResult struct {
	Node Node

	// LeftValidated is set when the node was validated before the change.
	// Children are not re-evaluated; ReviewIDs lists them for the caller.
	LeftValidated bool
	ReviewIDs     []string
}

// ApplyTransition applies a guarded status change to a node snapshot and
// returns the updated node. nodes is the investigation's node set, used
// only to report descendants for re-review.
//
// Justification and image reference are replaced only when supplied, so a
// revert to pending keeps the existing text. Cause role and classification
// are never touched here.
func ApplyTransition(n Node, req TransitionRequest, nodes []Node) (TransitionResult, error) {
	guard := CanTransition(TransitionContext{
		NodeID:        n.ID,
		IsRoot:        n.IsRoot(),
		Current:       n.Status,
		Target:        req.Target,
		Justification: req.Justification,
	})
	if err := guard.Error(); err != nil {
		return TransitionResult{}, err
	}

	result := TransitionResult{LeftValidated: n.Status == StatusValidated}
	n.Status = req.Target
	if req.Justification != "" {
		n.Justification = req.Justification
	}
	if req.JustificationImageRef != "" {
		n.JustificationImageRef = req.JustificationImageRef
	}
	result.Node = n

	if result.LeftValidated {
		result.ReviewIDs = Descendants(nodes, n.ID)
	}
	return result, nil
}

// ApplyCauseRole sets the role on a node snapshot. Setting basic clears
// contributing and vice versa by construction; none clears both.
func ApplyCauseRole(n Node, role CauseRole) (Node, error) {
	guard := CanSetCauseRole(CauseRoleContext{
		NodeID: n.ID,
		IsRoot: n.IsRoot(),
		Status: n.Status,
		Role:   role,
	})
	if err := guard.Error(); err != nil {
		return n, err
	}
	n.Role = role
	return n, nil
}

// ApplyClassification links (or with an empty ref, unlinks) a standard code.
func ApplyClassification(n Node, ref string) (Node, error) {
	guard := CanLinkClassification(ClassificationContext{
		NodeID: n.ID,
		IsRoot: n.IsRoot(),
		Status: n.Status,
		Ref:    ref,
	})
	if err := guard.Error(); err != nil {
		return n, err
	}
	n.ClassificationRef = ref
	return n, nil
}
