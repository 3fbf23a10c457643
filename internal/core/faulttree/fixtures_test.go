package faulttree

import "time"

var baseTime = time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)

func root(id string) Node {
	return Node{
		ID:              id,
		InvestigationID: "INV-001",
		Label:           "Operator fell from ladder",
		Kind:            KindRoot,
		Status:          StatusPending,
		Role:            RoleNone,
		CreatedAt:       baseTime,
	}
}

func child(id, parent string, kind Kind, status Status, order int) Node {
	return Node{
		ID:              id,
		InvestigationID: "INV-001",
		ParentID:        parent,
		Label:           "cause " + id,
		Kind:            kind,
		Status:          status,
		DisplayOrder:    order,
		Role:            RoleNone,
		CreatedAt:       baseTime.Add(time.Duration(order) * time.Minute),
	}
}

// scenarioNodes is R -> H-a (pending hypothesis) -> F-b (validated fact) -> H-c (pending hypothesis).
func scenarioNodes() []Node {
	fb := child("F-b", "H-a", KindFact, StatusValidated, 1)
	fb.Justification = "witness statement"
	return []Node{
		root("R"),
		child("H-a", "R", KindHypothesis, StatusPending, 1),
		fb,
		child("H-c", "F-b", KindHypothesis, StatusPending, 1),
	}
}
