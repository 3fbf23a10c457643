// Package faulttree contains the pure business logic of the fault-tree engine.
// This is part of the Functional Core - no I/O, only pure functions over
// flat node snapshots fetched by the shell.
package faulttree

import "time"

// Kind is the role a node plays in the causal hierarchy.
type Kind string

const (
	KindRoot       Kind = "root"
	KindHypothesis Kind = "hypothesis"
	KindFact       Kind = "fact"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRoot, KindHypothesis, KindFact:
		return true
	}
	return false
}

// Status is the validation state of a node.
type Status string

const (
	StatusPending   Status = "pending"
	StatusValidated Status = "validated"
	StatusDiscarded Status = "discarded"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusValidated, StatusDiscarded:
		return true
	}
	return false
}

// Terminal reports whether leaving pending for s requires a justification.
func (s Status) Terminal() bool {
	return s == StatusValidated || s == StatusDiscarded
}

// CauseRole classifies a validated cause. A single field makes the
// basic/contributing exclusion impossible to violate.
type CauseRole string

const (
	RoleNone         CauseRole = "none"
	RoleBasic        CauseRole = "basic"
	RoleContributing CauseRole = "contributing"
)

// Valid reports whether r is a known role.
func (r CauseRole) Valid() bool {
	switch r {
	case RoleNone, RoleBasic, RoleContributing:
		return true
	}
	return false
}

// Node is one flat cause row. Children are never materialized here;
// they are resolved through a parent index when a tree is built.
type Node struct {
	ID                    string
	InvestigationID       string
	ParentID              string // empty only for the root
	Label                 string
	Kind                  Kind
	Status                Status
	DisplayOrder          int
	Role                  CauseRole
	Justification         string
	JustificationImageRef string
	ClassificationRef     string
	Recommendation        string
	CreatedAt             time.Time
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// IsBasicCause is the stored flag as exposed at the external boundary.
func (n Node) IsBasicCause() bool {
	return n.Role == RoleBasic
}

// IsContributingCause is the stored flag as exposed at the external boundary.
func (n Node) IsContributingCause() bool {
	return n.Role == RoleContributing
}

// EffectiveRole is the role consumers may act on. Flags persist across a
// revert to pending but only count while the node is validated.
func (n Node) EffectiveRole() CauseRole {
	if n.Status != StatusValidated || n.Role == "" {
		return RoleNone
	}
	return n.Role
}

// RoleFromFlags maps the two external booleans onto a CauseRole.
// Both set at once is rejected.
func RoleFromFlags(basic, contributing bool) (CauseRole, error) {
	switch {
	case basic && contributing:
		return "", &ValidationError{
			Rule:    RuleRoleExclusive,
			Message: "a cause cannot be both basic and contributing",
		}
	case basic:
		return RoleBasic, nil
	case contributing:
		return RoleContributing, nil
	}
	return RoleNone, nil
}

// InitialStatus returns the status every newly created node starts in.
func InitialStatus() Status {
	return StatusPending
}
