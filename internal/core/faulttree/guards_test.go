package faulttree

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name        string
		ctx         TransitionContext
		wantAllowed bool
		wantRule    string
		wantReason  string
	}{
		{
			name:        "pending to validated with justification",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusPending, Target: StatusValidated, Justification: "photo evidence"},
			wantAllowed: true,
		},
		{
			name:        "pending to validated without justification",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusPending, Target: StatusValidated, Justification: "   "},
			wantAllowed: false,
			wantRule:    RuleJustificationRequired,
			wantReason:  "justification required to validate this cause",
		},
		{
			name:        "pending to discarded without justification",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusPending, Target: StatusDiscarded},
			wantAllowed: false,
			wantRule:    RuleJustificationRequired,
			wantReason:  "justification required to discard this cause",
		},
		{
			name:        "validated to discarded with justification",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusValidated, Target: StatusDiscarded, Justification: "contradicted by CCTV"},
			wantAllowed: true,
		},
		{
			name:        "discarded to validated requires justification",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusDiscarded, Target: StatusValidated},
			wantAllowed: false,
			wantRule:    RuleJustificationRequired,
			wantReason:  "justification required to validate this cause",
		},
		{
			name:        "revert to pending needs no justification",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusValidated, Target: StatusPending},
			wantAllowed: true,
		},
		{
			name:        "same status is rejected",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusPending, Target: StatusPending},
			wantAllowed: false,
			wantRule:    RuleSameStatus,
			wantReason:  "cause N1 is already pending",
		},
		{
			name:        "root cannot change status",
			ctx:         TransitionContext{NodeID: "R", IsRoot: true, Current: StatusPending, Target: StatusValidated, Justification: "x"},
			wantAllowed: false,
			wantRule:    RuleRootImmutable,
			wantReason:  "the top event R cannot be validated or discarded",
		},
		{
			name:        "unknown status",
			ctx:         TransitionContext{NodeID: "N1", Current: StatusPending, Target: Status("closed")},
			wantAllowed: false,
			wantRule:    RuleInvalidStatus,
			wantReason:  `unknown status "closed" (expected pending, validated or discarded)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanTransition(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if result.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
				}
				if result.Rule != tt.wantRule {
					t.Errorf("Rule = %q, want %q", result.Rule, tt.wantRule)
				}
			}
		})
	}
}

func TestCanSetCauseRole(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CauseRoleContext
		wantAllowed bool
		wantRule    string
	}{
		{"basic on validated", CauseRoleContext{NodeID: "N1", Status: StatusValidated, Role: RoleBasic}, true, ""},
		{"contributing on validated", CauseRoleContext{NodeID: "N1", Status: StatusValidated, Role: RoleContributing}, true, ""},
		{"basic on pending", CauseRoleContext{NodeID: "N1", Status: StatusPending, Role: RoleBasic}, false, RuleRoleRequiresValidated},
		{"contributing on discarded", CauseRoleContext{NodeID: "N1", Status: StatusDiscarded, Role: RoleContributing}, false, RuleRoleRequiresValidated},
		{"none on pending", CauseRoleContext{NodeID: "N1", Status: StatusPending, Role: RoleNone}, true, ""},
		{"basic on root", CauseRoleContext{NodeID: "R", IsRoot: true, Status: StatusValidated, Role: RoleBasic}, false, RuleRootImmutable},
		{"unknown role", CauseRoleContext{NodeID: "N1", Status: StatusValidated, Role: CauseRole("primary")}, false, RuleInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSetCauseRole(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (reason: %s)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if result.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", result.Rule, tt.wantRule)
			}
		})
	}
}

func TestCanLinkClassification(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ClassificationContext
		wantAllowed bool
	}{
		{"validated node", ClassificationContext{NodeID: "N1", Status: StatusValidated, Ref: "STD-1"}, true},
		{"pending node", ClassificationContext{NodeID: "N1", Status: StatusPending, Ref: "STD-1"}, false},
		{"unlink pending node", ClassificationContext{NodeID: "N1", Status: StatusPending, Ref: ""}, true},
		{"root", ClassificationContext{NodeID: "R", IsRoot: true, Status: StatusValidated, Ref: "STD-1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanLinkClassification(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (reason: %s)", result.Allowed, tt.wantAllowed, result.Reason)
			}
		})
	}
}

func TestCanCreateNode(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateNodeContext
		wantAllowed bool
		wantRule    string
	}{
		{
			name:        "hypothesis under existing parent",
			ctx:         CreateNodeContext{InvestigationID: "INV-001", ParentID: "R", ParentExists: true, ParentInvestigationID: "INV-001", Kind: KindHypothesis, Label: "wet floor"},
			wantAllowed: true,
		},
		{
			name:        "first root",
			ctx:         CreateNodeContext{InvestigationID: "INV-001", Kind: KindRoot, Label: "fall"},
			wantAllowed: true,
		},
		{
			name:     "second root",
			ctx:      CreateNodeContext{InvestigationID: "INV-001", Kind: KindRoot, Label: "fall", RootExists: true},
			wantRule: RuleRootExists,
		},
		{
			name:     "parentless hypothesis",
			ctx:      CreateNodeContext{InvestigationID: "INV-001", Kind: KindHypothesis, Label: "x"},
			wantRule: RuleParentRequired,
		},
		{
			name:     "root kind under a parent",
			ctx:      CreateNodeContext{InvestigationID: "INV-001", ParentID: "R", ParentExists: true, ParentInvestigationID: "INV-001", Kind: KindRoot, Label: "x"},
			wantRule: RuleInvalidKind,
		},
		{
			name:     "missing parent",
			ctx:      CreateNodeContext{InvestigationID: "INV-001", ParentID: "nope", Kind: KindFact, Label: "x"},
			wantRule: RuleParentRequired,
		},
		{
			name:     "parent in another investigation",
			ctx:      CreateNodeContext{InvestigationID: "INV-001", ParentID: "R2", ParentExists: true, ParentInvestigationID: "INV-002", Kind: KindFact, Label: "x"},
			wantRule: RuleCrossInvestigation,
		},
		{
			name:     "blank label",
			ctx:      CreateNodeContext{InvestigationID: "INV-001", ParentID: "R", ParentExists: true, ParentInvestigationID: "INV-001", Kind: KindFact, Label: "  "},
			wantRule: RuleLabelRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateNode(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (reason: %s)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if result.Rule != tt.wantRule {
				t.Errorf("Rule = %q, want %q", result.Rule, tt.wantRule)
			}
		})
	}
}

func TestCanDeleteNode(t *testing.T) {
	tests := []struct {
		name        string
		ctx         DeleteNodeContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "leaf cause",
			ctx:         DeleteNodeContext{NodeID: "N1", NodeCount: 3},
			wantAllowed: true,
		},
		{
			name:        "root with other causes",
			ctx:         DeleteNodeContext{NodeID: "R", IsRoot: true, NodeCount: 3},
			wantAllowed: false,
			wantReason:  "cannot delete the top event R while 2 other cause(s) exist",
		},
		{
			name:        "lone root",
			ctx:         DeleteNodeContext{NodeID: "R", IsRoot: true, NodeCount: 1},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanDeleteNode(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanMoveNode(t *testing.T) {
	if r := CanMoveNode(MoveNodeContext{NodeID: "N1", Direction: "up", HasSibling: true}); !r.Allowed {
		t.Errorf("move up with sibling rejected: %s", r.Reason)
	}
	if r := CanMoveNode(MoveNodeContext{NodeID: "N1", Direction: "down"}); r.Allowed || r.Reason != "cause N1 is already the last sibling" {
		t.Errorf("move down without sibling = %+v", r)
	}
	if r := CanMoveNode(MoveNodeContext{NodeID: "N1", Direction: "left", HasSibling: true}); r.Allowed {
		t.Error("unknown direction allowed")
	}
	if r := CanMoveNode(MoveNodeContext{NodeID: "R", IsRoot: true, Direction: "up", HasSibling: true}); r.Allowed {
		t.Error("root move allowed")
	}
}

func TestGuardResult_Error(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("allowed result error = %v, want nil", err)
	}
	err := (GuardResult{Rule: RuleSameStatus, Reason: "already pending"}).Error()
	if !IsValidation(err) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	if err.Error() != "already pending" {
		t.Errorf("Error() = %q", err.Error())
	}
}
