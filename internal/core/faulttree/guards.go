package faulttree

import (
	"fmt"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Rule    string
}

// Error converts the guard result to a *ValidationError if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &ValidationError{Rule: r.Rule, Message: r.Reason}
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(rule, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// TransitionContext provides context for status transition guards.
type TransitionContext struct {
	NodeID        string
	IsRoot        bool
	Current       Status
	Target        Status
	Justification string
}

// CanTransition evaluates a validation status change.
// Rules:
// - Target must be pending, validated or discarded
// - The root (top event) has no validation status of its own to change
// - Target must differ from the current status
// - validated and discarded require non-empty justification text
// Any pair of distinct states is otherwise reachable, including
// validated -> discarded for intermediate facts.
func CanTransition(ctx TransitionContext) GuardResult {
	if !ctx.Target.Valid() {
		return deny(RuleInvalidStatus, "unknown status %q (expected pending, validated or discarded)", ctx.Target)
	}
	if ctx.IsRoot {
		return deny(RuleRootImmutable, "the top event %s cannot be validated or discarded", ctx.NodeID)
	}
	if ctx.Current == ctx.Target {
		return deny(RuleSameStatus, "cause %s is already %s", ctx.NodeID, ctx.Target)
	}
	if ctx.Target.Terminal() && strings.TrimSpace(ctx.Justification) == "" {
		verb := "validate"
		if ctx.Target == StatusDiscarded {
			verb = "discard"
		}
		return deny(RuleJustificationRequired, "justification required to %s this cause", verb)
	}
	return allow()
}

// ClassificationContext provides context for classification link guards.
type ClassificationContext struct {
	NodeID string
	IsRoot bool
	Status Status
	Ref    string
}

// CanLinkClassification evaluates linking a standard code to a node.
// Rules:
// - Clearing the link (empty ref) is always allowed
// - The root cannot carry a classification
// - The node must be validated
// Whether the referenced code exists is the catalog's concern, not checked here.
func CanLinkClassification(ctx ClassificationContext) GuardResult {
	if ctx.Ref == "" {
		return allow()
	}
	if ctx.IsRoot {
		return deny(RuleRootImmutable, "the top event %s cannot be classified", ctx.NodeID)
	}
	if ctx.Status != StatusValidated {
		return deny(RuleClassRequiresValidated, "validate cause %s before linking a classification (current status: %s)", ctx.NodeID, ctx.Status)
	}
	return allow()
}

// CauseRoleContext provides context for cause role guards.
type CauseRoleContext struct {
	NodeID string
	IsRoot bool
	Status Status
	Role   CauseRole
}

// CanSetCauseRole evaluates marking a node as basic or contributing cause.
// Rules:
// - Role must be basic, contributing or none
// - none is always allowed (it only clears flags)
// - The root cannot be a cause of itself
// - basic and contributing require a validated node
func CanSetCauseRole(ctx CauseRoleContext) GuardResult {
	if !ctx.Role.Valid() {
		return deny(RuleInvalidRole, "unknown cause role %q (expected basic, contributing or none)", ctx.Role)
	}
	if ctx.Role == RoleNone {
		return allow()
	}
	if ctx.IsRoot {
		return deny(RuleRootImmutable, "the top event %s cannot be marked as a %s cause", ctx.NodeID, ctx.Role)
	}
	if ctx.Status != StatusValidated {
		return deny(RuleRoleRequiresValidated, "validate cause %s before marking it as a %s cause (current status: %s)", ctx.NodeID, ctx.Role, ctx.Status)
	}
	return allow()
}

// CreateNodeContext provides context for node creation guards.
type CreateNodeContext struct {
	InvestigationID       string
	ParentID              string
	ParentExists          bool
	ParentInvestigationID string
	RootExists            bool
	Kind                  Kind
	Label                 string
}

// CanCreateNode evaluates attaching a new node.
// Rules:
// - Label must not be blank
// - Without a parent, only the first root may be created
// - With a parent, kind must be hypothesis or fact
// - The parent must exist in the same investigation
func CanCreateNode(ctx CreateNodeContext) GuardResult {
	if strings.TrimSpace(ctx.Label) == "" {
		return deny(RuleLabelRequired, "a cause needs a label")
	}

	if ctx.ParentID == "" {
		if ctx.Kind != KindRoot {
			return deny(RuleParentRequired, "a %s cause must be attached under an existing node", ctx.Kind)
		}
		if ctx.RootExists {
			return deny(RuleRootExists, "investigation %s already has a root event", ctx.InvestigationID)
		}
		return allow()
	}

	if ctx.Kind != KindHypothesis && ctx.Kind != KindFact {
		return deny(RuleInvalidKind, "kind must be hypothesis or fact (got %q)", ctx.Kind)
	}
	if !ctx.ParentExists {
		return deny(RuleParentRequired, "parent node %s not found", ctx.ParentID)
	}
	if ctx.ParentInvestigationID != ctx.InvestigationID {
		return deny(RuleCrossInvestigation, "parent node %s belongs to investigation %s, not %s", ctx.ParentID, ctx.ParentInvestigationID, ctx.InvestigationID)
	}
	return allow()
}

// DeleteNodeContext provides context for node deletion guards.
type DeleteNodeContext struct {
	NodeID    string
	IsRoot    bool
	NodeCount int // nodes in the investigation, the target included
}

// CanDeleteNode evaluates a cascading delete.
// Rules:
// - The root cannot be deleted while any other node exists
func CanDeleteNode(ctx DeleteNodeContext) GuardResult {
	if ctx.IsRoot && ctx.NodeCount > 1 {
		return deny(RuleRootDeleteForbidden, "cannot delete the top event %s while %d other cause(s) exist", ctx.NodeID, ctx.NodeCount-1)
	}
	return allow()
}

// UpdateLabelContext provides context for label edit guards.
type UpdateLabelContext struct {
	NodeID string
	Label  string
}

// CanUpdateLabel evaluates a label edit.
// Rules:
// - Label must not be blank
func CanUpdateLabel(ctx UpdateLabelContext) GuardResult {
	if strings.TrimSpace(ctx.Label) == "" {
		return deny(RuleLabelRequired, "cause %s needs a non-empty label", ctx.NodeID)
	}
	return allow()
}

// MoveNodeContext provides context for sibling reorder guards.
type MoveNodeContext struct {
	NodeID     string
	IsRoot     bool
	Direction  string // "up" or "down"
	HasSibling bool   // a sibling exists in that direction
}

// CanMoveNode evaluates swapping a node with its adjacent sibling.
// Rules:
// - The root has no siblings
// - Direction must be up or down
// - There must be a sibling in that direction
func CanMoveNode(ctx MoveNodeContext) GuardResult {
	if ctx.IsRoot {
		return deny(RuleRootImmutable, "the top event %s cannot be reordered", ctx.NodeID)
	}
	if ctx.Direction != MoveUp && ctx.Direction != MoveDown {
		return deny(RuleInvalidRequest, "direction must be up or down (got %q)", ctx.Direction)
	}
	if !ctx.HasSibling {
		position := "first"
		if ctx.Direction == MoveDown {
			position = "last"
		}
		return deny(RuleNoSibling, "cause %s is already the %s sibling", ctx.NodeID, position)
	}
	return allow()
}
